// Package injuries pulls player availability from an injury feed.
package injuries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/vstrike/internal/domain/rules"
	"github.com/okian/vstrike/pkg/logger"
	"github.com/okian/vstrike/pkg/metrics"
	"golang.org/x/time/rate"
)

// Supported providers and the header each expects the key in.
const (
	ProviderAPISports  = "apisports"
	ProviderSportsData = "sportsdata"
)

var providerHeaders = map[string]string{
	ProviderAPISports:  "x-apisports-key",
	ProviderSportsData: "Ocp-Apim-Subscription-Key",
}

// Sentinel errors.
var (
	ErrUnknownProvider = errors.New("unknown injury provider")
	ErrFeed            = errors.New("injury feed request failed")
)

// Report is one player entry of the feed.
type Report struct {
	Player string `json:"player"`
	Status string `json:"status"`
}

// Client fetches the current injury book.
type Client struct {
	url     string
	header  string
	keys    []string
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit bounds requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, burst))
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for provider at url. Keys are tried in order.
func New(provider, url string, keys []string, opts ...Option) (*Client, error) {
	header, ok := providerHeaders[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	c := &Client{
		url:     url,
		header:  header,
		keys:    append([]string(nil), keys...),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		log:     logger.Get().Named("injuries"),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchStatuses returns the non-active players of the feed. Keys rejected
// with 401 or 429 fall through to the next one.
func (c *Client) FetchStatuses(ctx context.Context) (rules.Injuries, error) {
	if len(c.keys) == 0 {
		return nil, fmt.Errorf("%w: no api keys", ErrFeed)
	}
	var lastErr error
	for i, key := range c.keys {
		body, status, err := c.get(ctx, key)
		if err != nil {
			lastErr = err
			break
		}
		if status == http.StatusUnauthorized || status == http.StatusTooManyRequests {
			c.log.Warn(ctx, "injury key rejected", logger.Int("key", i), logger.Int("status", status))
			lastErr = fmt.Errorf("%w: status %d", ErrFeed, status)
			continue
		}
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("%w: status %d", ErrFeed, status)
			break
		}
		inj, err := Decode(body)
		if err != nil {
			lastErr = err
			break
		}
		metrics.RecordInjuryRefresh("ok")
		return inj, nil
	}
	metrics.RecordInjuryRefresh("error")
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, key string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(c.header, key)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrFeed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Decode parses either a player to status object or a list of reports.
// Active players are dropped.
func Decode(raw []byte) (rules.Injuries, error) {
	out := rules.Injuries{}
	var book map[string]string
	if err := json.Unmarshal(raw, &book); err == nil {
		for player, status := range book {
			add(out, player, status)
		}
		return out, nil
	}
	var list []Report
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode injuries: %w", err)
	}
	for _, r := range list {
		add(out, r.Player, r.Status)
	}
	return out, nil
}

func add(book rules.Injuries, player, status string) {
	if player == "" {
		return
	}
	if st := rules.ParseInjuryStatus(status); st != rules.StatusActive {
		book[player] = st
	}
}
