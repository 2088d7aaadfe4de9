package metrics

import (
	"time"
)

// SparklinePoints is the fixed length of every sparkline series
const SparklinePoints = 15

// Sparkline buckets the transactions into exactly SparklinePoints
// buckets over the current window, each spanning floor(days/15) days,
// anchored at now and walking backward. The returned series is ordered
// oldest bucket first. Each bucket holds the signed sum produced by the
// amount function for transactions whose date falls within the bucket's
// inclusive range; a transaction on a shared boundary is assigned to the
// more recent bucket. Empty input yields SparklinePoints zeros, never a
// shorter series.
func Sparkline(txns []Transaction, days int, now time.Time, amount func(Transaction) int64) []int64 {
	series := make([]int64, SparklinePoints)
	bucketDays := days / SparklinePoints
	if bucketDays <= 0 {
		return series
	}
	bucket := time.Duration(bucketDays) * 24 * time.Hour

	for _, t := range txns {
		offset := now.Sub(t.Date)
		if offset < 0 {
			continue
		}
		// idx counts buckets backward from now; idx 0 is the newest
		idx := int(offset / bucket)
		if idx == SparklinePoints && offset == time.Duration(SparklinePoints)*bucket {
			// the window-start instant belongs to the oldest bucket;
			// the window is inclusive on both ends
			idx = SparklinePoints - 1
		}
		if idx >= SparklinePoints {
			continue
		}
		series[SparklinePoints-1-idx] += amount(t)
	}
	return series
}

// AbsSeries returns the per-bucket absolute values of the series. A
// bucket that nets negative for an otherwise-positive series still
// reports as a positive magnitude; the absolute value is taken per
// bucket, not on the window total.
func AbsSeries(series []int64) []int64 {
	out := make([]int64, len(series))
	for i, v := range series {
		if v < 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// DiffSeries returns the point-wise difference a[i] - b[i]. The profit
// sparkline is derived this way from the revenue and expense series
// rather than recomputed from raw transactions.
func DiffSeries(a, b []int64) []int64 {
	out := make([]int64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
