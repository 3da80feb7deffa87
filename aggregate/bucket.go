package aggregate

// Bucket is an aggregation_time-aligned timestamp, i.e. bucket mod
// aggregation_time == 0 always holds for any value this package produces.
type Bucket = int64

// AlignBucket returns the bucket a Unix timestamp t belongs to, given the
// configured aggregation_time width in seconds.
func AlignBucket(t int64, aggregationTime int64) Bucket {
	return t - (t % aggregationTime)
}
