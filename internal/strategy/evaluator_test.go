package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendSentry/internal/model"
)

// breakoutSeries declines steadily for 89 bars, then a single strong
// final bar triggers a MACD bull cross and an RSI cross above 50 at
// the same bar, with momentum exactly +1.5%.
func breakoutSeries() (closes, volumes []float64) {
	closes = make([]float64, 0, 90)
	for i := 0; i < 89; i++ {
		closes = append(closes, 100.0-0.08*float64(i))
	}
	closes = append(closes, closes[86]*1.015)

	volumes = make([]float64, 90)
	for i := range volumes {
		volumes[i] = 1.0
	}
	volumes[89] = 2.2 // roughly 2x the trailing 20-bar average
	return closes, volumes
}

// quietSeries drifts sideways with a mild tail: no crossover, no
// rebound, momentum only +0.3%, flat volume.
func quietSeries() (closes, volumes []float64) {
	closes = make([]float64, 0, 90)
	for i := 0; i < 86; i++ {
		sign := 0.05
		if i%2 == 1 {
			sign = -0.05
		}
		closes = append(closes, 100.0+sign-0.01*float64(i))
	}
	drift := 0.0006
	last := closes[85]
	for j := 0; j < 4; j++ {
		last = last * (1 + drift)
		closes = append(closes, last)
	}
	closes[89] = closes[86] * 1.003

	volumes = make([]float64, 90)
	for i := range volumes {
		volumes[i] = 1.0
	}
	return closes, volumes
}

func TestEvaluate_BreakoutAggressive(t *testing.T) {
	closes, volumes := breakoutSeries()
	findings := Evaluate("BTCUSDT", closes, volumes, ModeAggressive)
	require.Len(t, findings, 1)
	assert.Equal(t, model.CategoryBullishSetup, findings[0].Category)
	assert.Equal(t, "BTCUSDT", findings[0].Symbol)
}

func TestEvaluate_BreakoutConservative(t *testing.T) {
	// All four confirmations hold simultaneously, so the strict mode
	// fires as well.
	closes, volumes := breakoutSeries()
	findings := Evaluate("BTCUSDT", closes, volumes, ModeConservative)
	require.Len(t, findings, 1)
	assert.Equal(t, model.CategoryBullishSetup, findings[0].Category)
}

func TestEvaluate_QuietSeriesYieldsNothing(t *testing.T) {
	closes, volumes := quietSeries()
	assert.Empty(t, Evaluate("ETHUSDT", closes, volumes, ModeAggressive))
	assert.Empty(t, Evaluate("ETHUSDT", closes, volumes, ModeConservative))
}

func TestEvaluate_ShortSeriesYieldsNothing(t *testing.T) {
	closes := make([]float64, 59)
	volumes := make([]float64, 59)
	for i := range closes {
		closes[i] = 100 + float64(i)
		volumes[i] = 1
	}
	assert.Empty(t, Evaluate("XRPUSDT", closes, volumes, ModeAggressive))
	assert.Empty(t, Evaluate("XRPUSDT", nil, nil, ModeAggressive))
}

func TestEvaluate_Idempotent(t *testing.T) {
	closes, volumes := breakoutSeries()
	first := Evaluate("BTCUSDT", closes, volumes, ModeAggressive)
	second := Evaluate("BTCUSDT", closes, volumes, ModeAggressive)
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, f := range first {
		require.False(t, seen[f.Text], "duplicate finding text %q", f.Text)
		seen[f.Text] = true
	}
}

func TestEvaluate_ConservativeSubsetOfAggressive(t *testing.T) {
	// Whatever the strict mode finds, the loose mode must find too.
	for seed := 0; seed < 25; seed++ {
		closes := make([]float64, 120)
		volumes := make([]float64, 120)
		v := 100.0
		for i := range closes {
			v += math.Sin(float64(i)*0.31+float64(seed))*0.9 - 0.02
			closes[i] = v
			volumes[i] = 1 + 0.5*math.Abs(math.Sin(float64(i)+float64(seed)))
		}
		cons := Evaluate("SOLUSDT", closes, volumes, ModeConservative)
		aggr := Evaluate("SOLUSDT", closes, volumes, ModeAggressive)

		consBull := countCategory(cons, model.CategoryBullishSetup)
		aggrBull := countCategory(aggr, model.CategoryBullishSetup)
		assert.LessOrEqual(t, consBull, aggrBull, "seed %d", seed)

		// Mode-independent categories must match exactly.
		for _, cat := range []model.FindingCategory{
			model.CategoryBearishWarning,
			model.CategoryOverbought,
			model.CategoryOversold,
		} {
			assert.Equal(t, countCategory(aggr, cat), countCategory(cons, cat), "seed %d cat %s", seed, cat)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("conservative")
	require.NoError(t, err)
	assert.Equal(t, ModeConservative, m)

	_, err = ParseMode("bold")
	assert.Error(t, err)
}

func TestOrderedSet_FirstSeenWins(t *testing.T) {
	s := newOrderedSet()
	a := model.Finding{Symbol: "A", Category: model.CategoryOverbought, Text: "x"}
	b := model.Finding{Symbol: "A", Category: model.CategoryOversold, Text: "y"}
	s.add(a)
	s.add(b)
	s.add(a)
	require.Len(t, s.items, 2)
	assert.Equal(t, []model.Finding{a, b}, s.items)
}

func countCategory(fs []model.Finding, cat model.FindingCategory) int {
	n := 0
	for _, f := range fs {
		if f.Category == cat {
			n++
		}
	}
	return n
}
