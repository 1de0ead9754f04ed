// Package client is a Go client for the marketplace HTTP API. It keeps the
// session token in a local cache so callers stay logged in across processes,
// the way the web client keeps it in browser storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"codecrafted.org/internal/auth"
	"codecrafted.org/internal/catalog"
	"codecrafted.org/internal/session"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the marketplace API at BaseURL.
type Client struct {
	baseURL  string
	httpc    *http.Client
	sessions *session.Cache
}

// Option configures Client behavior.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The client's cookie
// jar is replaced so the session cookie mirror keeps working.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// New constructs a Client whose session lives under stateDir.
func New(baseURL, stateDir string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout, Jar: jar},
		sessions: session.NewCache(
			session.NewFileStore(stateDir),
			session.NewCookieStore(jar, origin),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc.Jar == nil {
		c.httpc.Jar = jar
	}
	return c, nil
}

// Sessions exposes the underlying session cache.
func (c *Client) Sessions() *session.Cache {
	return c.sessions
}

type sessionResult struct {
	Message string    `json:"message"`
	User    auth.User `json:"user"`
	Token   string    `json:"token"`
}

// Register creates an account and caches the returned session token.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (auth.User, error) {
	var out sessionResult
	err := c.do(ctx, http.MethodPost, "/api/users/register", map[string]string{
		"name": name, "email": email, "password": password, "role": role,
	}, &out)
	if err != nil {
		return auth.User{}, err
	}
	if err := c.sessions.Store(out.Token); err != nil {
		return auth.User{}, err
	}
	return out.User, nil
}

// Login authenticates and caches the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (auth.User, error) {
	var out sessionResult
	err := c.do(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return auth.User{}, err
	}
	if err := c.sessions.Store(out.Token); err != nil {
		return auth.User{}, err
	}
	return out.User, nil
}

// Logout drops the cached session.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// CurrentUser decodes the cached token locally without a network round trip.
// It returns nil when no live session is cached.
func (c *Client) CurrentUser() (*auth.Claims, error) {
	return c.sessions.LoadDecoded()
}

// User fetches a user by id. Requires a cached session.
func (c *Client) User(ctx context.Context, id string) (auth.User, error) {
	var out auth.User
	err := c.do(ctx, http.MethodGet, "/api/users/user/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdateUser patches profile fields by id. Requires a cached session.
func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]any) (auth.User, error) {
	var out struct {
		User auth.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPut, "/api/users/update/"+url.PathEscape(id), fields, &out)
	return out.User, err
}

// DeleteUser removes a user by id. Requires a cached session.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/delete/"+url.PathEscape(id), nil, nil)
}

// Courses lists the catalog.
func (c *Client) Courses(ctx context.Context) ([]catalog.Course, error) {
	var out []catalog.Course
	err := c.do(ctx, http.MethodGet, "/api/courses/", nil, &out)
	return out, err
}

// Course fetches one course by its catalog id.
func (c *Client) Course(ctx context.Context, courseID int64) (catalog.Course, error) {
	var out catalog.Course
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/courses/course/%d", courseID), nil, &out)
	return out, err
}

// CreateCourse adds a course to the catalog.
func (c *Client) CreateCourse(ctx context.Context, course catalog.Course) (catalog.Course, error) {
	var out catalog.Course
	err := c.do(ctx, http.MethodPost, "/api/courses/create", course, &out)
	return out, err
}

// RecordInteraction reports a user's activity on a course.
func (c *Client) RecordInteraction(ctx context.Context, interaction catalog.Interaction) error {
	return c.do(ctx, http.MethodPost, "/api/interactions/", interaction, nil)
}

// Recommend fetches course recommendations for a user.
func (c *Client) Recommend(ctx context.Context, userID string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/recommend", map[string]string{"userId": userID}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := c.sessions.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// errorMessage extracts the API's error text, whichever key it arrived under.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(data))
}
