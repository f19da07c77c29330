// Package oddsapi fetches odds and scores from The Odds API. Rate limited
// keys are rotated and failed fetches fall back to the last cached payload.
package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/okian/vstrike/internal/domain/model"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/okian/vstrike/pkg/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.the-odds-api.com/v4/sports"
	DefaultRegions  = "us"
	DefaultCacheTTL = 12 * time.Hour
	DefaultRetries  = 3

	endpointOdds   = "odds"
	endpointScores = "scores"
)

// State is the persistence the client needs for key rotation and caching.
type State interface {
	KeyState
	LoadCache(ctx context.Context, name string) ([]byte, time.Time, error)
	SaveCache(ctx context.Context, name string, payload []byte, at time.Time) error
}

// Client talks to the odds feed.
type Client struct {
	baseURL    string
	regions    string
	cacheTTL   time.Duration
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter
	state      State
	keys       *KeyRing
	now        func() time.Time
	log        logger.Logger

	mu        sync.Mutex
	exhausted map[string]struct{}
}

// New creates a client using keys in order.
func New(keys []string, state State, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		regions:    DefaultRegions,
		cacheTTL:   DefaultCacheTTL,
		maxRetries: DefaultRetries,
		http:       &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		state:      state,
		now:        time.Now,
		log:        logger.Get().Named("oddsapi"),
		exhausted:  make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	c.keys = NewKeyRing(keys, state, c.now)
	return c
}

// FetchOdds returns upcoming events of sport with moneyline and spread
// markets. A fresh cached payload is served without a request. On failure
// the stale cache is returned, or nothing.
func (c *Client) FetchOdds(ctx context.Context, sport string) []model.Event {
	cacheName := "odds:" + sport
	cached, storedAt, cacheErr := c.state.LoadCache(ctx, cacheName)
	if cacheErr == nil && c.now().Sub(storedAt) < c.cacheTTL {
		if events, err := decodeEvents(cached, sport); err == nil {
			metrics.RecordOddsCache("hit")
			return events
		}
	}
	metrics.RecordOddsCache("miss")

	q := url.Values{}
	q.Set("regions", c.regions)
	q.Set("markets", model.MarketH2H+","+model.MarketSpreads)
	q.Set("oddsFormat", "american")
	body, err := c.get(ctx, endpointOdds, sport, q)
	if err == nil {
		events, decErr := decodeEvents(body, sport)
		if decErr == nil {
			if err := c.state.SaveCache(ctx, cacheName, body, c.now()); err != nil {
				c.log.Warn(ctx, "cache odds", logger.String("sport", sport), logger.Error(err))
			}
			return events
		}
		err = decErr
	}

	c.log.Warn(ctx, "fetch odds failed", logger.String("sport", sport), logger.Error(err))
	metrics.RecordErrorByComponent("oddsapi", "fetch_odds")
	if cacheErr == nil {
		if events, decErr := decodeEvents(cached, sport); decErr == nil {
			metrics.RecordOddsCache("stale")
			return events
		}
	}
	return nil
}

// FetchScores returns the results of sport from the last day. Failures
// yield an empty slice.
func (c *Client) FetchScores(ctx context.Context, sport string) []model.ScoreEvent {
	q := url.Values{}
	q.Set("daysFrom", "1")
	q.Set("dateFormat", "iso")
	body, err := c.get(ctx, endpointScores, sport, q)
	if err != nil {
		c.log.Warn(ctx, "fetch scores failed", logger.String("sport", sport), logger.Error(err))
		metrics.RecordErrorByComponent("oddsapi", "fetch_scores")
		return nil
	}
	var out []model.ScoreEvent
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Warn(ctx, "decode scores", logger.String("sport", sport), logger.Error(err))
		return nil
	}
	return out
}

// Exhausted reports whether sport was skipped after all keys ran out.
func (c *Client) Exhausted(sport string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.exhausted[sport]
	return ok
}

// ResetExhausted clears the exhausted sports.
func (c *Client) ResetExhausted() {
	c.mu.Lock()
	c.exhausted = make(map[string]struct{})
	c.mu.Unlock()
}

// get issues one API call, rotating keys on rate limits.
func (c *Client) get(ctx context.Context, endpoint, sport string, q url.Values) ([]byte, error) {
	if c.Exhausted(sport) {
		return nil, ErrKeysExhausted
	}
	policy := NewRetryPolicy(c.maxRetries, 0, func(err error) bool {
		return errors.Is(err, ErrRateLimited)
	})

	var body []byte
	err := policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			rotated, err := c.keys.Rotate(ctx)
			if err != nil {
				return err
			}
			if !rotated {
				return ErrKeysExhausted
			}
			metrics.RecordKeyRotation()
			c.log.Info(ctx, "rotated odds api key", logger.String("sport", sport), logger.Int("attempt", attempt))
		}
		key, err := c.keys.Current(ctx)
		if err != nil {
			return err
		}
		body, err = c.do(ctx, endpoint, sport, key, q)
		return err
	})
	if errors.Is(err, ErrKeysExhausted) {
		c.mu.Lock()
		c.exhausted[sport] = struct{}{}
		c.mu.Unlock()
		metrics.RecordKeysExhausted(sport)
		return nil, fmt.Errorf("%s %s: %w", endpoint, sport, ErrKeysExhausted)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, endpoint, sport, key string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	params.Set("apiKey", key)
	u := fmt.Sprintf("%s/%s/%s/?%s", c.baseURL, url.PathEscape(sport), endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RecordOddsRequestLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordOddsRequest(endpoint, "error")
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordOddsRequest(endpoint, strconv.Itoa(resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode, msg)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func decodeEvents(raw []byte, sport string) ([]model.Event, error) {
	var events []model.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	for i := range events {
		if events[i].SportKey == "" {
			events[i].SportKey = sport
		}
	}
	return events, nil
}
