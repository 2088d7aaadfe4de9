package metrics

// PercentChange computes the relative change from previous to current as
// a percentage. A zero previous value yields 0 when current is also zero
// and 100 otherwise - never infinity, NaN, or a negative value in the
// zero-previous case. This mirrors the source system's behavior for a
// move from zero and is preserved deliberately.
func PercentChange(previous, current int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	prev := float64(previous)
	if prev < 0 {
		prev = -prev
	}
	return (float64(current) - float64(previous)) / prev * 100
}
