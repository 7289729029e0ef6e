package model

// IndicatorSet holds all derived sequences for one symbol. Every
// sequence is right-aligned with the source closes: the last element
// of each corresponds to the most recent candle.
type IndicatorSet struct {
	EMAFast    []float64
	EMASlow    []float64
	MACDLine   []float64
	MACDSignal []float64
	MACDHist   []float64
	RSI        []float64
}
