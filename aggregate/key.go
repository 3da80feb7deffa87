// Package aggregate folds a filtered netflow.Record stream into a
// per-source-network, per-time-bucket packet count map, and provides the
// commutative/associative merge used to reduce per-worker partial maps.
package aggregate

import (
	"net/netip"

	"github.com/netallow/netallow/config"
)

// SourceKey is a source address masked to the configured per-family
// aggregation prefix length. netip.Addr is already a small comparable
// value that internally discriminates IPv4 from IPv6, so it satisfies
// §9's "sum-typed IP keys" note directly — no hand-rolled tagged union
// is needed, and masking-then-storing the network address (never the
// prefix length) matches spec.md §3 exactly.
type SourceKey = netip.Addr

// Mask returns addr's network address at the per-family aggregation
// prefix length from cfg. Masking an already-masked address at the same
// prefix length is idempotent, since Masked() is a pure function of
// (addr, bits).
func Mask(addr netip.Addr, cfg *config.Configuration) SourceKey {
	bits := cfg.IPv4Aggregation
	if addr.Is6() && !addr.Is4In6() {
		bits = cfg.IPv6Aggregation
	}
	prefix := netip.PrefixFrom(addr, bits)
	return prefix.Masked().Addr()
}
