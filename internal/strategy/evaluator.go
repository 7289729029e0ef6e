package strategy

import (
	"fmt"

	"TrendSentry/internal/calculator"
	"TrendSentry/internal/model"
)

// Mode selects which rule policy emits bullish setups.
type Mode string

const (
	// ModeAggressive fires on any single early signal.
	ModeAggressive Mode = "aggressive"
	// ModeConservative requires all confirmations simultaneously.
	ModeConservative Mode = "conservative"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAggressive, ModeConservative:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown rule mode %q", s)
}

// minCloses is the shortest close series worth evaluating.
const minCloses = 60

// Evaluate runs the rule set for one symbol and returns its findings,
// deduplicated with first-occurrence order preserved. Short series
// produce no findings rather than an error. The function is pure:
// identical inputs always yield the identical finding list.
func Evaluate(symbol string, closes, volumes []float64, mode Mode) []model.Finding {
	if len(closes) < minCloses {
		return nil
	}
	ind := calculator.Compute(closes)
	if len(ind.RSI) < 2 || len(ind.MACDHist) < 2 {
		return nil
	}

	rsiNow := ind.RSI[len(ind.RSI)-1]
	rsiPrev := ind.RSI[len(ind.RSI)-2]
	lineNow := ind.MACDLine[len(ind.MACDLine)-1]
	linePrev := ind.MACDLine[len(ind.MACDLine)-2]
	sigNow := ind.MACDSignal[len(ind.MACDSignal)-1]
	sigPrev := ind.MACDSignal[len(ind.MACDSignal)-2]

	volSpike := false
	if len(volumes) > 0 {
		volSpike = volumes[len(volumes)-1] > 1.5*calculator.TrailingMean(volumes, 20)
	}

	momentum := 0.0
	if ref := closes[len(closes)-4]; ref != 0 {
		momentum = (closes[len(closes)-1] - ref) / ref * 100
	}

	bullCross := linePrev <= sigPrev && lineNow > sigNow
	bearCross := linePrev >= sigPrev && lineNow < sigNow
	rsiRebound := rsiPrev < 50 && rsiNow >= 50

	set := newOrderedSet()

	if mode == ModeConservative {
		if bullCross && rsiRebound && volSpike && momentum > 1.0 {
			set.add(model.Finding{
				Symbol:   symbol,
				Category: model.CategoryBullishSetup,
				Text:     fmt.Sprintf("✅ %s: MACD cross up, RSI>50, volume spike, momentum %+.2f%%", symbol, momentum),
			})
		}
	} else {
		if bullCross || rsiRebound || (volSpike && momentum > 0.7) {
			set.add(model.Finding{
				Symbol:   symbol,
				Category: model.CategoryBullishSetup,
				Text:     fmt.Sprintf("⚡ %s: early signal (MACD/RSI/volume), momentum %+.2f%%", symbol, momentum),
			})
		}
	}

	if bearCross || (!volSpike && momentum < -1.0 && rsiNow < rsiPrev) {
		set.add(model.Finding{
			Symbol:   symbol,
			Category: model.CategoryBearishWarning,
			Text:     fmt.Sprintf("⚠️ %s: possible weakening ahead", symbol),
		})
	}

	if rsiNow >= 70 {
		set.add(model.Finding{
			Symbol:   symbol,
			Category: model.CategoryOverbought,
			Text:     fmt.Sprintf("🧭 %s: RSI %.1f (overbought)", symbol, rsiNow),
		})
	}
	if rsiNow <= 30 {
		set.add(model.Finding{
			Symbol:   symbol,
			Category: model.CategoryOversold,
			Text:     fmt.Sprintf("🧭 %s: RSI %.1f (oversold)", symbol, rsiNow),
		})
	}

	return set.items
}
