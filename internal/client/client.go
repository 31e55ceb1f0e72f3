// Package client is a typed consumer of the back-office REST API. It also
// carries the list, filter and drawer state an admin front end keeps
// between requests.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/simp-lee/backoffice/internal/module/auth"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
)

// Client talks to one back-office server.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(r *resty.Client) {
		if token != "" {
			r.SetAuthToken(token)
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *resty.Client) {
		if d > 0 {
			r.SetTimeout(d)
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+apiPrefix).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(r)
	}
	return &Client{http: r}
}

// SetToken replaces the bearer token used by later requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Login exchanges credentials for a token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (auth.TokenResponse, error) {
	tok, err := do[auth.TokenResponse](ctx, c, http.MethodPost, "/auth/login", nil,
		auth.LoginRequest{Email: email, Password: password})
	if err != nil {
		return tok, err
	}
	c.SetToken(tok.Token)
	return tok, nil
}

// Me returns the authenticated user and the permission codes it holds.
func (c *Client) Me(ctx context.Context) (auth.MeResponse, error) {
	return do[auth.MeResponse](ctx, c, http.MethodGet, "/auth/me", nil, nil)
}

// envelope mirrors the server's {code, message, data} response.
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// do sends one request and decodes the data member of the envelope. Non-2xx
// responses become *APIError.
func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return zero, newAPIError(resp.StatusCode(), resp.Body())
	}
	if resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return zero, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return zero, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return env.Data, nil
}
