package binance

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"TrendSentry/internal/model"
)

// stableToStable pairs carry no momentum signal and are excluded from
// the volume-ranked universe.
var stableToStable = map[string]bool{
	"BUSDUSDT": true,
	"USDCUSDT": true,
	"TUSDUSDT": true,
	"USDTUSDC": true,
}

type ticker24h struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

// TopQuoteVolumeSymbols returns the top-n USDT pairs ranked by 24h
// quote volume, excluding stable-to-stable pairs and wrapped-stable
// symbols starting with "USD".
func (c *Client) TopQuoteVolumeSymbols(ctx context.Context, n int) ([]string, error) {
	var tickers []ticker24h
	if err := c.getJSON(ctx, "/api/v3/ticker/24hr", nil, false, &tickers); err != nil {
		return nil, fmt.Errorf("ticker 24hr: %w", err)
	}

	type ranked struct {
		symbol string
		volume float64
	}
	pairs := make([]ranked, 0, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") || strings.HasPrefix(t.Symbol, "USD") {
			continue
		}
		if stableToStable[t.Symbol] {
			continue
		}
		vol, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil {
			vol = 0
		}
		pairs = append(pairs, ranked{symbol: t.Symbol, volume: vol})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].volume > pairs[j].volume })

	if n < 1 {
		n = 1
	}
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = pairs[i].symbol
	}
	log.Info().Int("count", len(out)).Msg("selected top USDT pairs by quote volume")
	return out, nil
}

// Klines fetches candle history for one symbol, oldest first. The API
// encodes each kline as a mixed-type JSON array:
// [openTime, open, high, low, close, volume, closeTime, ...].
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	var raw [][]interface{}
	if err := c.getJSON(ctx, "/api/v3/klines", params, false, &raw); err != nil {
		return nil, fmt.Errorf("klines %s: %w", symbol, err)
	}

	bars := make([]model.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		openMs, ok := k[0].(float64)
		if !ok {
			continue
		}
		bars = append(bars, model.Candle{
			OpenTime: time.UnixMilli(int64(openMs)),
			Open:     toFloat(k[1]),
			High:     toFloat(k[2]),
			Low:      toFloat(k[3]),
			Close:    toFloat(k[4]),
			Volume:   toFloat(k[5]),
		})
	}
	return bars, nil
}

// toFloat converts the API's stringly-typed numbers.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return n
	default:
		return 0
	}
}
