// Package arkhamdb downloads the public card export.
package arkhamdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
)

const (
	DefaultBaseURL = "https://arkhamdb.com"
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
	userAgent      = "otherworld-codex/1.0"
)

// NotFoundError is returned when the API answers 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.URL)
}

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Client is a rate-limited ArkhamDB API client.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	initialBackoff time.Duration
}

// NewClient creates a client. Zero options fall back to the public API at
// two requests per second.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        base,
		httpClient:     httpClient,
		rateLimiter:    rate.NewLimiter(rate.Limit(rps), 1),
		initialBackoff: initialBackoff,
	}
}

// FetchCardsJSON downloads the card export, encounter cards included, and
// returns the body unparsed.
func (c *Client) FetchCardsJSON(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, c.baseURL+"/api/public/cards/?encounter=1")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}
	return body, nil
}

// FetchCards downloads and decodes the card export.
func (c *Client) FetchCards(ctx context.Context) ([]cards.RawCard, error) {
	body, err := c.FetchCardsJSON(ctx)
	if err != nil {
		return nil, err
	}
	return cards.DecodeRawCards(body)
}

// FetchCard downloads one card by code.
func (c *Client) FetchCard(ctx context.Context, code string) (cards.RawCard, error) {
	body, err := c.get(ctx, c.baseURL+"/api/public/card/"+url.PathEscape(code))
	if err != nil {
		return cards.RawCard{}, fmt.Errorf("failed to fetch card %s: %w", code, err)
	}
	return cards.DecodeRawCard(body)
}

// Pack is one entry of the pack list.
type Pack struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	CycleCode string `json:"cycle_code,omitempty"`
	Total     int    `json:"total"`
}

// FetchPacks downloads the pack list.
func (c *Client) FetchPacks(ctx context.Context) ([]Pack, error) {
	body, err := c.get(ctx, c.baseURL+"/api/public/packs/")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packs: %w", err)
	}
	var packs []Pack
	if err := json.Unmarshal(body, &packs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return packs, nil
}

// get performs a GET with rate limiting and retries on network errors,
// 429 and 5xx responses.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retryAfter, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		if retryAfter > backoff {
			backoff = retryAfter
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) do(ctx context.Context, target string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &networkError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, 0, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, &NotFoundError{URL: target}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var retryAfter time.Duration
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			retryAfter = time.Duration(secs) * time.Second
		}
		return nil, retryAfter, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

type networkError struct{ err error }

func (e *networkError) Error() string { return "HTTP request failed: " + e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var netErr *networkError
	if errors.As(err, &netErr) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return false
}

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
