package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"TrendSentry/internal/model"
	"TrendSentry/internal/strategy"
)

// minCandles is the fewest bars worth evaluating; thinner symbols are
// skipped silently (insufficient data is not an error).
const minCandles = 30

// MarketData is the read-only provider surface the scanner depends on.
type MarketData interface {
	TopQuoteVolumeSymbols(ctx context.Context, n int) ([]string, error)
	Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
}

// Options configures one Scanner. All fields are fixed at startup.
type Options struct {
	Interval    string
	Mode        strategy.Mode
	Symbols     []string // explicit universe override; empty means top-N
	TopN        int
	KlineLimit  int
	Concurrency int
}

// Scanner drives one complete scan cycle across the symbol universe.
// Symbols are evaluated by a bounded worker pool; per-symbol results
// are collected in universe order so a cycle is deterministic for a
// given set of fetch responses.
type Scanner struct {
	market MarketData
	opts   Options
}

// New creates a Scanner.
func New(market MarketData, opts Options) *Scanner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.KlineLimit < 1 {
		opts.KlineLimit = 300
	}
	return &Scanner{market: market, opts: opts}
}

// Run executes one cycle. A single symbol's failure is logged and
// skipped; only an empty universe aborts the cycle.
func (s *Scanner) Run(ctx context.Context) (*model.ScanResult, error) {
	started := time.Now().UTC()

	symbols := s.opts.Symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = s.market.TopQuoteVolumeSymbols(ctx, s.opts.TopN)
		if err != nil {
			return nil, fmt.Errorf("resolve symbol universe: %w", err)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to scan")
	}

	log.Info().Int("symbols", len(symbols)).Str("interval", s.opts.Interval).
		Str("mode", string(s.opts.Mode)).Msg("scan cycle starting")

	findings := make([][]model.Finding, len(symbols))
	checked := make([]bool, len(symbols))

	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			bars, err := s.market.Klines(ctx, sym, s.opts.Interval, s.opts.KlineLimit)
			if err != nil {
				log.Warn().Str("symbol", sym).Err(err).Msg("fetch failed, skipping symbol")
				return
			}
			if len(bars) < minCandles {
				log.Debug().Str("symbol", sym).Int("bars", len(bars)).Msg("insufficient history, skipping")
				return
			}
			findings[i] = strategy.Evaluate(sym, model.Closes(bars), model.Volumes(bars), s.opts.Mode)
			checked[i] = true
		}(i, sym)
	}
	wg.Wait()

	res := &model.ScanResult{
		Interval:  s.opts.Interval,
		Mode:      string(s.opts.Mode),
		StartedAt: started,
	}
	for i := range symbols {
		if checked[i] {
			res.SymbolsChecked++
		}
		res.Findings = append(res.Findings, findings[i]...)
	}
	res.FinishedAt = time.Now().UTC()

	log.Info().Int("checked", res.SymbolsChecked).Int("findings", len(res.Findings)).
		Dur("elapsed", res.FinishedAt.Sub(res.StartedAt)).Msg("scan cycle finished")
	return res, nil
}
