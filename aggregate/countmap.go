package aggregate

import (
	"github.com/netallow/netallow/config"
	"github.com/netallow/netallow/netflow"
)

// CountMap maps a masked SourceKey to a sparse Bucket -> packet count
// map. Insertion order is irrelevant; a SourceKey with an empty inner
// map is never stored. CountMap itself carries no synchronization — the
// parallel driver (package driver) is the only place that coordinates
// across goroutines, giving each worker its own CountMap and reducing
// them serially after all workers finish, exactly as spec.md §4.4
// requires.
type CountMap map[SourceKey]map[Bucket]int64

// New returns an empty CountMap.
func New() CountMap {
	return make(CountMap)
}

// Add folds one filtered record into m, distributing its packets across
// buckets per spec.md §4.3.
//
// If the record's first and last timestamps fall in the same bucket, all
// in_packets are credited there in one step. Otherwise, packets are
// placed at n evenly spaced instants between first and last (inclusive)
// and each instant's bucket gets exactly one increment — so the total
// credited across all buckets always equals in_packets exactly.
func (m CountMap) Add(rec *netflow.Record, cfg *config.Configuration) {
	if rec.InPackets < 1 {
		return
	}
	key := Mask(rec.Src, cfg)

	// Fractional seconds, as original_source's float timestamp() spread:
	// when a flow straddles a bucket boundary, the sub-second parts of
	// first/last can decide which bucket a spread packet lands in.
	first := float64(rec.First.UnixNano()) / 1e9
	last := float64(rec.Last.UnixNano()) / 1e9
	firstBucket := AlignBucket(int64(first), cfg.AggregationTime)
	lastBucket := AlignBucket(int64(last), cfg.AggregationTime)

	inner := m[key]
	if inner == nil {
		inner = make(map[Bucket]int64)
		m[key] = inner
	}

	if firstBucket == lastBucket || rec.InPackets == 1 {
		inner[firstBucket] += rec.InPackets
		return
	}

	timeTotal := last - first
	// n-1 gaps between n packets spread evenly from first to last.
	step := timeTotal / float64(rec.InPackets-1)
	for i := int64(0); i < rec.InPackets; i++ {
		t := first + float64(i)*step
		bucket := AlignBucket(int64(t), cfg.AggregationTime)
		inner[bucket]++
	}
}

// Merge combines src into dst and returns the result, reusing whichever
// of the two maps is larger as the accumulator (a micro-optimization
// spec.md §4.4 calls out explicitly) so the smaller map's entries are the
// ones copied over. Merge is commutative and associative: the result
// does not depend on which argument is "dst" or on call order across a
// chain of merges.
func Merge(dst, src CountMap) CountMap {
	if len(dst) < len(src) {
		dst, src = src, dst
	}

	for key, buckets := range src {
		existing, ok := dst[key]
		if !ok {
			dst[key] = buckets
			continue
		}
		for bucket, count := range buckets {
			existing[bucket] += count
		}
	}
	return dst
}
