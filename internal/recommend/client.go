package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute
	maxResponseSize = 4 << 20
)

// UserProfile is the profile shape the external recommender scores against.
type UserProfile struct {
	UserID            string  `json:"UserID"`
	TotalCoursesTaken int     `json:"total_courses_taken"`
	AvgRating         float64 `json:"avg_rating"`
}

// Request is the recommendation request payload.
type Request struct {
	UserProfile         UserProfile `json:"user_profile"`
	CandidateCourseIDs  []int64     `json:"candidate_course_ids"`
	NumRecommendations  int         `json:"num_recommendations"`
	ExcludeTakenCourses bool        `json:"exclude_taken_courses"`
}

// UpstreamError reports a non-2xx answer from the recommender.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("recommend: upstream returned %d", e.StatusCode)
}

// Client proxies recommendation requests to the external recommender over
// HTTP and caches per-user responses for a short window.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *bigcache.BigCache
}

// Option configures Client behavior.
type Option func(*clientConfig)

type clientConfig struct {
	httpc    *http.Client
	cacheTTL time.Duration
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(cfg *clientConfig) {
		if httpc != nil {
			cfg.httpc = httpc
		}
	}
}

// WithCacheTTL overrides how long per-user responses are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(cfg *clientConfig) {
		if ttl > 0 {
			cfg.cacheTTL = ttl
		}
	}
}

// New constructs a Client for the recommender at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("recommend: base URL is required")
	}
	cfg := clientConfig{
		httpc:    &http.Client{Timeout: defaultTimeout},
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cfg.cacheTTL))
	if err != nil {
		return nil, fmt.Errorf("recommend: init cache: %w", err)
	}
	return &Client{baseURL: baseURL, httpc: cfg.httpc, cache: cache}, nil
}

// Recommend scores courses for one user. A fresh cached response for the
// same user is returned without a round trip; failures are never cached.
func (c *Client) Recommend(ctx context.Context, req Request) (json.RawMessage, error) {
	key := req.UserProfile.UserID
	if key != "" {
		if cached, err := c.cache.Get(key); err == nil {
			return json.RawMessage(cached), nil
		}
	}
	body, err := c.post(ctx, "/recommend", req)
	if err != nil {
		return nil, err
	}
	if key != "" {
		_ = c.cache.Set(key, body)
	}
	return body, nil
}

// BatchRecommend forwards a multi-user request verbatim. Batch responses are
// not cached.
func (c *Client) BatchRecommend(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.post(ctx, "/batch-recommend", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("recommend: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: call upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("recommend: read upstream response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
