package calculator

// EMA computes the exponential moving average of values with the given
// span, using k = 2/(span+1) and seeding with the first value. The
// result has the same length as the input; an empty input yields nil.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	k := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}
