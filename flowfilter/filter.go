// Package flowfilter decides which decoded netflow.Record values belong
// in the aggregation pipeline: traffic to a protected prefix on port 53
// (DNS), optionally narrowed further by a compiled Expr.
package flowfilter

import (
	"net/netip"

	"github.com/netallow/netallow/netflow"
)

// Match reports whether rec is destined to one of prefixes on port 53.
// Address-family mismatch (an IPv4 record against an IPv6-only prefix
// list, or vice versa) is a non-match, not an error, per spec.md §4.2.
func Match(rec *netflow.Record, prefixes []netip.Prefix) bool {
	if rec.DstPort != 53 {
		return false
	}
	for _, p := range prefixes {
		if p.Contains(rec.Dst) {
			return true
		}
	}
	return false
}

// Predicate is a compiled filter ready to test records. Built by
// NewPredicate from a Configuration's protected prefixes and optional
// expression string.
type Predicate struct {
	prefixes []netip.Prefix
	expr     *Expr
}

// NewPredicate compiles a Predicate. exprSrc may be empty, in which case
// only the base port/prefix rule applies.
func NewPredicate(prefixes []netip.Prefix, exprSrc string) (*Predicate, error) {
	p := &Predicate{prefixes: prefixes}
	if exprSrc != "" {
		e, err := Compile(exprSrc)
		if err != nil {
			return nil, err
		}
		p.expr = e
	}
	return p, nil
}

// Match reports whether rec passes both the base predicate and, if
// configured, the compiled expression.
func (p *Predicate) Match(rec *netflow.Record) bool {
	if !Match(rec, p.prefixes) {
		return false
	}
	if p.expr == nil {
		return true
	}
	return p.expr.Eval(rec)
}
