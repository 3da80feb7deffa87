package allowlist

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/netallow/netallow/aggregate"
	"github.com/netallow/netallow/config"
)

func unix(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

func TestSingleFlowSingleBucket(t *testing.T) {
	key := netip.MustParseAddr("192.0.2.0")
	data := aggregate.CountMap{key: {1704067200: 200}}
	now := unix("2024-01-01T02:00:00Z")

	steady1 := config.Default()
	steady1.ParamSteady = 1
	steady1.ParamHeavy = 128
	al := Build(data, steady1, now)
	assert.Equal(t, int64(200), al[key])

	defaults := config.Default()
	al2 := Build(data, defaults, now)
	assert.Empty(t, al2)
}

func TestEmptyCountMapYieldsEmptyAllowlist(t *testing.T) {
	// Filtering happens upstream of aggregation; an empty CountMap
	// always yields an empty allowlist regardless of parameters.
	data := aggregate.CountMap{}
	al := Build(data, config.Default(), unix("2024-01-01T02:00:00Z"))
	assert.Empty(t, al)
}

func TestSteadyAndHeavy(t *testing.T) {
	key := netip.MustParseAddr("192.0.2.0")
	cfg := config.Default() // param_steady=3, param_heavy=128
	now := unix("2024-01-01T03:00:00Z")

	twoBuckets := aggregate.CountMap{
		key: {
			unix("2024-01-01T00:00:00Z"): 10000,
			unix("2024-01-01T01:00:00Z"): 10000,
		},
	}
	assert.Empty(t, Build(twoBuckets, cfg, now))

	threeBuckets := aggregate.CountMap{
		key: {
			unix("2024-01-01T00:00:00Z"): 10000,
			unix("2024-01-01T01:00:00Z"): 10000,
			unix("2024-01-01T02:00:00Z"): 200,
		},
	}
	al := Build(threeBuckets, cfg, now)
	assert.Equal(t, int64(10000), al[key])
}

func TestWindowExcludesNowBucket(t *testing.T) {
	key := netip.MustParseAddr("192.0.2.0")
	cfg := config.Default()
	cfg.ParamSteady = 1
	cfg.ParamHeavy = 1

	now := unix("2024-01-01T02:00:00Z")
	nowBucket := aggregate.AlignBucket(now, cfg.AggregationTime)

	data := aggregate.CountMap{
		key: {
			nowBucket:                       999999, // excluded: bucket == now is never < now
			nowBucket - cfg.AggregationTime: 500,    // included: the previous bucket
		},
	}
	al := Build(data, cfg, now)
	assert.Equal(t, int64(500), al[key])
}

func TestAllowlistMonotonicInHeavy(t *testing.T) {
	key := netip.MustParseAddr("192.0.2.0")
	now := unix("2024-01-01T02:00:00Z")
	data := aggregate.CountMap{
		key: {
			unix("2023-12-31T23:00:00Z"): 150,
			unix("2024-01-01T00:00:00Z"): 150,
			unix("2024-01-01T01:00:00Z"): 150,
		},
	}
	low := config.Default()
	low.ParamHeavy = 100
	high := config.Default()
	high.ParamHeavy = 200

	lowList := Build(data, low, now)
	highList := Build(data, high, now)
	assert.Contains(t, lowList, key)
	assert.NotContains(t, highList, key)
}

func TestAllowlistMonotonicInSteady(t *testing.T) {
	key := netip.MustParseAddr("192.0.2.0")
	now := unix("2024-01-01T02:00:00Z")
	data := aggregate.CountMap{
		key: {
			unix("2024-01-01T00:00:00Z"): 200,
			unix("2024-01-01T01:00:00Z"): 200,
		},
	}
	low := config.Default()
	low.ParamSteady = 2
	low.ParamHeavy = 100
	high := config.Default()
	high.ParamSteady = 3
	high.ParamHeavy = 100

	lowList := Build(data, low, now)
	highList := Build(data, high, now)
	assert.Contains(t, lowList, key)
	assert.NotContains(t, highList, key)
}
