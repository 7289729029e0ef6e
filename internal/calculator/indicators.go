package calculator

import "TrendSentry/internal/model"

// Standard indicator parameters.
const (
	EMAFastSpan    = 12
	EMASlowSpan    = 26
	MACDSignalSpan = 9
	RSIPeriod      = 14
)

// Compute derives the full indicator set for one close series. MACD
// and RSI sequences are empty when the series is too short for them;
// callers decide whether that is enough to evaluate.
func Compute(closes []float64) *model.IndicatorSet {
	line, signal, hist := MACD(closes, EMAFastSpan, EMASlowSpan, MACDSignalSpan)
	return &model.IndicatorSet{
		EMAFast:    EMA(closes, EMAFastSpan),
		EMASlow:    EMA(closes, EMASlowSpan),
		MACDLine:   line,
		MACDSignal: signal,
		MACDHist:   hist,
		RSI:        RSI(closes, RSIPeriod),
	}
}
