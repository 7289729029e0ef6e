package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrExhausted is returned when every endpoint has used up its retry
// budget. It is non-fatal by contract: callers skip the symbol or cycle.
var ErrExhausted = errors.New("all endpoints exhausted")

// outcome classifies a single request attempt. Retry policy is a
// decision table over outcomes, not control flow through error catching.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeBlocked         // 451/403: endpoint-specific block, advance to next endpoint
	outcomeRateLimited     // 429: cooldown, retry same endpoint
	outcomeTransient       // 5xx, transport error, malformed response: retry same endpoint
)

// attemptResult carries one classified attempt.
type attemptResult struct {
	outcome    outcome
	body       []byte
	retryAfter time.Duration // server-supplied wait on rate limit, 0 if absent
	err        error
}

// ClientConfig collects the knobs for a Client. Values come from the
// process configuration; the client never reads the environment.
type ClientConfig struct {
	Endpoints  []string
	APIKey     string
	APISecret  string
	MaxRetries int
	Timeout    time.Duration
	// PaceEvery spaces requests globally across all callers to respect
	// provider rate limits. Zero disables pacing.
	PaceEvery time.Duration
}

// Client issues read requests against a ranked list of equivalent API
// mirrors, failing over on endpoint-specific blocks and retrying on
// transient failures. Safe for concurrent use; the pacing limiter is
// shared across all goroutines.
type Client struct {
	endpoints  []string
	apiKey     string
	apiSecret  string
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter

	// cooldowns are fixed in production, shortened in tests
	rateLimitCooldown time.Duration
	transientCooldown time.Duration
	now               func() time.Time
}

// NewClient creates a Client. The endpoint list is treated as read-only
// after this call.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 3
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.PaceEvery > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.PaceEvery), 1)
	}
	return &Client{
		endpoints:         cfg.Endpoints,
		apiKey:            cfg.APIKey,
		apiSecret:         cfg.APISecret,
		maxRetries:        retries,
		http:              &http.Client{Timeout: timeout},
		limiter:           limiter,
		rateLimitCooldown: 2 * time.Second,
		transientCooldown: 1 * time.Second,
		now:               time.Now,
	}
}

// getJSON fetches path with params and decodes the response body into
// v, iterating the endpoint pool in fixed order. A 200 body that fails
// to decode is a transient failure like a 5xx: the same endpoint is
// retried after a cooldown. Signed requests get a timestamp plus
// HMAC-SHA256 signature when credentials are configured.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, signed bool, v interface{}) error {
	for _, base := range c.endpoints {
	attempts:
		for attempt := 1; attempt <= c.maxRetries; attempt++ {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			res := c.attempt(ctx, base, path, params, signed)
			switch res.outcome {
			case outcomeSuccess:
				derr := json.Unmarshal(res.body, v)
				if derr == nil {
					return nil
				}
				log.Warn().Str("path", path).Str("endpoint", base).
					Int("attempt", attempt).Int("max", c.maxRetries).Err(derr).
					Msg("malformed response body, retrying")
				if err := sleep(ctx, c.transientCooldown); err != nil {
					return err
				}
			case outcomeBlocked:
				log.Warn().Str("path", path).Str("endpoint", base).Err(res.err).
					Msg("endpoint blocked, trying next mirror")
				break attempts
			case outcomeRateLimited:
				wait := c.rateLimitCooldown
				if res.retryAfter > 0 {
					wait = res.retryAfter
				}
				log.Warn().Str("path", path).Str("endpoint", base).Dur("wait", wait).
					Msg("rate limited, retrying same endpoint")
				if err := sleep(ctx, wait); err != nil {
					return err
				}
			case outcomeTransient:
				log.Warn().Str("path", path).Str("endpoint", base).
					Int("attempt", attempt).Int("max", c.maxRetries).Err(res.err).
					Msg("request failed, retrying")
				if err := sleep(ctx, c.transientCooldown); err != nil {
					return err
				}
			}
		}
	}
	log.Error().Str("path", path).Strs("endpoints", c.endpoints).Msg("request failed on all endpoints")
	return fmt.Errorf("GET %s: %w", path, ErrExhausted)
}

func (c *Client) attempt(ctx context.Context, base, path string, params url.Values, signed bool) attemptResult {
	u := base + path
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	if signed && c.apiKey != "" && c.apiSecret != "" {
		q.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
		encoded := q.Encode()
		mac := hmac.New(sha256.New, []byte(c.apiSecret))
		mac.Write([]byte(encoded))
		u += "?" + encoded + "&signature=" + hex.EncodeToString(mac.Sum(nil))
	} else if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return attemptResult{outcome: outcomeTransient, err: err}
	}
	req.Header.Set("User-Agent", "tg-alerts/1.1")
	if signed && c.apiKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return attemptResult{outcome: outcomeTransient, err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnavailableForLegalReasons || resp.StatusCode == http.StatusForbidden:
		return attemptResult{outcome: outcomeBlocked, err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return attemptResult{outcome: outcomeRateLimited, retryAfter: parseRetryAfter(resp.Header)}
	case resp.StatusCode >= 500:
		return attemptResult{outcome: outcomeTransient, err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return attemptResult{outcome: outcomeTransient, err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptResult{outcome: outcomeTransient, err: fmt.Errorf("read body: %w", err)}
	}
	return attemptResult{outcome: outcomeSuccess, body: body}
}

func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleep waits for d unless the context is cancelled first. Per-request
// backoff must not block unrelated symbols, so this never holds locks.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
