// Package allowlist applies the steady+heavy selection rule to a merged
// aggregate.CountMap, producing the final SourceKey -> peak packet count
// mapping the CSV writer serializes.
package allowlist

import (
	"net/netip"

	"github.com/netallow/netallow/aggregate"
	"github.com/netallow/netallow/config"
)

// Allowlist maps a source network to its peak observed per-bucket packet
// count within the training window. The peak (not the mean) is stored so
// downstream rate-limiters can provision headroom, per spec.md §4.5.
type Allowlist map[netip.Addr]int64

// Build computes the Allowlist from a merged CountMap, given cfg and a
// reference time now (a Unix timestamp, UTC).
//
// The training window is the half-open interval of buckets
// [now_bucket - aggregation_time*param_w_train, now), per spec.md §4.5 —
// the window's start is bucket-aligned but its end is the unaligned
// reference time. A bucket equal to now_bucket is therefore excluded only
// when now is itself bucket-aligned; when now falls inside a bucket, that
// bucket's start is below now and it is counted. This asymmetry is
// preserved here rather than "fixed".
func Build(data aggregate.CountMap, cfg *config.Configuration, now int64) Allowlist {
	nowBucket := aggregate.AlignBucket(now, cfg.AggregationTime)
	earliest := nowBucket - cfg.AggregationTime*cfg.ParamWTrain

	out := make(Allowlist)
	for key, buckets := range data {
		var inWindow []int64
		for bucket, count := range buckets {
			if bucket >= earliest && bucket < now {
				inWindow = append(inWindow, count)
			}
		}
		if len(inWindow) < cfg.ParamSteady {
			continue
		}
		peak := inWindow[0]
		for _, c := range inWindow[1:] {
			if c > peak {
				peak = c
			}
		}
		if peak < cfg.ParamHeavy {
			continue
		}
		out[key] = peak
	}
	return out
}
