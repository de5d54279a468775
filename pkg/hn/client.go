// Package hn provides the Hacker News Firebase API client with typed item
// decoding and error classification.
package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public read-only Hacker News Firebase API.
	DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

	// DefaultTimeout bounds each upstream call. There are no retries: a
	// timeout or transport failure propagates to the caller as an Error.
	DefaultTimeout = 10 * time.Second
)

// Prometheus metrics for upstream requests. The endpoint label carries the
// endpoint name (item, user, topstories, ...), never the full path, to keep
// cardinality independent of the id space.
var (
	hnRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hn_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	hnRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hn_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	hnErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hn_errors_total",
		Help: "Total upstream errors by kind",
	}, []string{"kind"})
)

// Client is the Hacker News API client. It wraps one http.Client whose
// connection pool is shared by all calls and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// Config holds the client configuration. The zero value is usable and
// targets the public API.
type Config struct {
	// BaseURL overrides the upstream API base (no trailing slash needed).
	// Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each upstream call, connection and body included.
	// Defaults to DefaultTimeout.
	Timeout time.Duration
}

// New creates a new Hacker News API client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  log.With().Str("component", "hn-client").Logger(),
	}
}

// Item returns the item with the given id, or (nil, nil) when the upstream
// does not know the id: the API answers unknown ids with a JSON null body.
func (c *Client) Item(ctx context.Context, id uint32) (Item, error) {
	path := fmt.Sprintf("/item/%d.json", id)

	body, err := c.get(ctx, "item", path)
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nil
	}

	item, err := DecodeItem(body)
	if err != nil {
		hnErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
		c.logger.Warn().Err(err).Uint32("id", id).Msg("Item body did not decode")
		return nil, &Error{Kind: KindDecode, Path: path, Err: err}
	}
	return item, nil
}

// User returns the user with the given username, or (nil, nil) when the
// username is unknown upstream.
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	path := "/user/" + url.PathEscape(username) + ".json"

	body, err := c.get(ctx, "user", path)
	if err != nil {
		return nil, err
	}
	if isNull(body) {
		return nil, nil
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		hnErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
		c.logger.Warn().Err(err).Str("username", username).Msg("User body did not decode")
		return nil, &Error{Kind: KindDecode, Path: path, Err: err}
	}
	return &u, nil
}

// MaxItem returns the id of the newest item.
func (c *Client) MaxItem(ctx context.Context) (uint32, error) {
	var id uint32
	if err := c.getJSON(ctx, "maxitem", "/maxitem.json", &id); err != nil {
		return 0, err
	}
	return id, nil
}

// TopStories returns the current front page story ids in rank order.
func (c *Client) TopStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "topstories")
}

// NewStories returns the newest story ids.
func (c *Client) NewStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "newstories")
}

// BestStories returns the best story ids.
func (c *Client) BestStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "beststories")
}

// AskStories returns up to 200 latest Ask HN story ids.
func (c *Client) AskStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "askstories")
}

// ShowStories returns up to 200 latest Show HN story ids.
func (c *Client) ShowStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "showstories")
}

// JobStories returns up to 200 latest job story ids.
func (c *Client) JobStories(ctx context.Context) ([]uint32, error) {
	return c.list(ctx, "jobstories")
}

// Updates returns the recently changed item ids and usernames.
func (c *Client) Updates(ctx context.Context) (Updates, error) {
	var u Updates
	if err := c.getJSON(ctx, "updates", "/updates.json", &u); err != nil {
		return Updates{}, err
	}
	return u, nil
}

// list fetches one of the ordered id-list endpoints. The endpoint name
// doubles as the path segment for all of them.
func (c *Client) list(ctx context.Context, endpoint string) ([]uint32, error) {
	var ids []uint32
	if err := c.getJSON(ctx, endpoint, "/"+endpoint+".json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// getJSON fetches a path and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, v any) error {
	body, err := c.get(ctx, endpoint, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		hnErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
		c.logger.Warn().Err(err).Str("path", path).Msg("Response body did not decode")
		return &Error{Kind: KindDecode, Path: path, Err: err}
	}
	return nil
}

// get performs one GET against the upstream and returns the raw body.
// This is the single choke point for timing, metrics and error
// classification.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		hnRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("path", path).
		Msg("Fetching upstream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		hnErrorsTotal.WithLabelValues(string(KindTransport)).Inc()
		hnRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.logger.Warn().Err(err).Str("path", path).Msg("Upstream request failed")
		return nil, &Error{Kind: KindTransport, Path: path, Err: err}
	}
	defer resp.Body.Close()

	hnRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		hnErrorsTotal.WithLabelValues(string(KindStatus)).Inc()
		c.logger.Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Upstream returned error status")
		return nil, &Error{Kind: KindStatus, Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		hnErrorsTotal.WithLabelValues(string(KindTransport)).Inc()
		return nil, &Error{Kind: KindTransport, Path: path, Err: err}
	}
	return body, nil
}

// isNull reports whether the body is the upstream's "no such resource"
// answer: a JSON null (or an empty body, seen from some proxies).
func isNull(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
