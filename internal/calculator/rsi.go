package calculator

// RSI computes the Wilder-smoothed relative strength index over the
// given period. The average gain/loss is seeded with the simple mean
// of the first `period` changes, then updated as
// (prevAvg*(period-1) + current) / period. When the average loss is
// zero, RS is treated as infinite and RSI is exactly 100.
//
// The returned sequence is right-aligned with the input: its last
// element corresponds to the most recent value. Inputs of length
// <= period yield nil.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) <= period {
		return nil
	}

	gains := make([]float64, len(values)-1)
	losses := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gains[i-1] = d
		} else {
			losses[i-1] = -d
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(gains)-period)
	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		if avgLoss == 0 {
			out = append(out, 100.0)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100.0-100.0/(1.0+rs))
	}
	return out
}
