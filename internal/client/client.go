// Package client is a Go client for the activities API: list the catalog,
// sign up for an activity, and unregister a participant.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// Client talks to an activities API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds each request. Zero, the default, waits for as long
// as the request context allows.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is a parsed API reply. It is returned for every HTTP status; the
// caller inspects Status to tell success from an application error.
type Response struct {
	Status int
	Body   json.RawMessage
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Message returns the body's "message" field when it is a string.
func (r *Response) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.Body, &body)
	return body.Message
}

// ListActivities fetches the catalog.
func (c *Client) ListActivities(ctx context.Context) (model.Catalog, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/activities")
	if err != nil {
		return model.Catalog{}, err
	}

	var catalog model.Catalog
	if err := json.Unmarshal(resp.Body, &catalog); err != nil {
		return model.Catalog{}, &ParseError{Op: "list activities", Err: err}
	}
	return catalog, nil
}

// Signup asks the API to add email to activity.
func (c *Client) Signup(ctx context.Context, activity, email string) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, participantPath(activity, "signup", email))
}

// Unregister asks the API to remove email from activity.
func (c *Client) Unregister(ctx context.Context, activity, email string) (*Response, error) {
	return c.doRequest(ctx, http.MethodDelete, participantPath(activity, "unregister", email))
}

// participantPath percent-encodes the activity as a path segment and the
// email as a query value.
func participantPath(activity, action, email string) string {
	return fmt.Sprintf("/activities/%s/%s?email=%s",
		url.PathEscape(activity), action, url.QueryEscape(email))
}

// doRequest performs an HTTP request and decodes the JSON body. Transport
// failures become *NetworkError and a body that is not JSON becomes
// *ParseError. Non-2xx statuses are not errors.
func (c *Client) doRequest(ctx context.Context, method, path string) (*Response, error) {
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, &ParseError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("response is not valid JSON")}
	}

	c.logger.Debug("api response", "op", op, "status", resp.StatusCode)

	return &Response{Status: resp.StatusCode, Body: json.RawMessage(raw)}, nil
}
