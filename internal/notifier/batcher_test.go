package notifier

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendSentry/internal/model"
)

func sampleResult(findings []model.Finding) *model.ScanResult {
	return &model.ScanResult{
		Interval:       "1h",
		Mode:           "aggressive",
		Findings:       findings,
		SymbolsChecked: 40,
		FinishedAt:     time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
	}
}

func TestHeader(t *testing.T) {
	h := Header(sampleResult(nil))
	assert.Equal(t, "📈 Market scan (1h, aggressive) — 40 symbols\n2026-08-24 10:00 UTC\n\n", h)
}

func TestBuildBlocks_EmptyFindings(t *testing.T) {
	assert.Nil(t, BuildBlocks("header\n\n", nil, MaxBlockSize))
}

func TestBuildBlocks_SingleBlock(t *testing.T) {
	findings := []model.Finding{
		{Symbol: "BTCUSDT", Category: model.CategoryBullishSetup, Text: "⚡ BTCUSDT: early signal"},
		{Symbol: "ETHUSDT", Category: model.CategoryOverbought, Text: "🧭 ETHUSDT: RSI 72.1 (overbought)"},
	}
	header := Header(sampleResult(findings))
	blocks := BuildBlocks(header, findings, MaxBlockSize)
	require.Len(t, blocks, 1)
	assert.Equal(t, header+findings[0].Text+"\n"+findings[1].Text+"\n", blocks[0])
}

func TestBuildBlocks_SplitsAndReconstructs(t *testing.T) {
	header := "HEADER\n\n"
	var findings []model.Finding
	for i := 0; i < 50; i++ {
		findings = append(findings, model.Finding{
			Symbol:   fmt.Sprintf("SYM%02dUSDT", i),
			Category: model.CategoryBullishSetup,
			Text:     fmt.Sprintf("⚡ SYM%02dUSDT: early signal (MACD/RSI/volume), momentum +1.23%%", i),
		})
	}
	limit := 400 // force several blocks
	blocks := BuildBlocks(header, findings, limit)
	require.GreaterOrEqual(t, len(blocks), 2)

	var lines []string
	for _, b := range blocks {
		assert.LessOrEqual(t, len(b), limit, "every block fits the limit")
		require.True(t, strings.HasPrefix(b, header), "every block starts with the header")
		body := strings.TrimPrefix(b, header)
		for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
			lines = append(lines, line)
		}
	}

	require.Len(t, lines, len(findings), "concatenated blocks reconstruct the list")
	for i, f := range findings {
		assert.Equal(t, f.Text, lines[i])
	}
}

func TestBuildBlocks_OversizedSingleFindingStillEmitted(t *testing.T) {
	header := "H\n"
	f := model.Finding{Symbol: "X", Text: strings.Repeat("x", 64)}
	blocks := BuildBlocks(header, []model.Finding{f}, 16)
	require.Len(t, blocks, 1)
	assert.Equal(t, header+f.Text+"\n", blocks[0])
}
