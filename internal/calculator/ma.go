package calculator

import "errors"

// SMA computes the simple moving average of the trailing `period` values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// TrailingMean averages the trailing `period` values, falling back to
// the mean of all available values when the series is shorter. Returns
// 0 for an empty series.
func TrailingMean(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if ma, err := SMA(values, period); err == nil {
		return ma
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
