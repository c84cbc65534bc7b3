// Package transport is the HTTP client shared by all southbound A1 adapters.
// Each Client is rooted at a base URL; callers pass the remainder of the URL
// and get the response body back as a string.
package transport

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Requester represents the minimum HTTP client contract used for southbound calls.
type Requester interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Factory.
type Config struct {
	Timeout       time.Duration
	TLSSkipVerify bool
	HTTPClient    Requester
	Logger        *zap.Logger
}

// Factory hands out Clients that share one underlying HTTP client, so
// connection pooling is shared by every adapter built from it.
type Factory struct {
	timeout    time.Duration
	httpClient Requester
	logger     *zap.Logger
}

// NewFactory builds a Factory. A nil HTTPClient gets a pooled client with the
// configured timeout.
func NewFactory(cfg Config) *Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLSSkipVerify {
			tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in for lab RICs
		}
		httpClient = &http.Client{Timeout: timeout, Transport: tr}
	}

	return &Factory{timeout: timeout, httpClient: httpClient, logger: logger}
}

// New returns a Client rooted at baseURL. An empty baseURL means callers pass
// absolute URLs.
func (f *Factory) New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:    f.timeout,
		httpClient: f.httpClient,
		logger:     f.logger,
	}
}

// Client issues southbound HTTP requests. It holds no mutable state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient Requester
	logger     *zap.Logger
}

type basicAuth struct {
	username string
	password string
}

// BaseURL returns the URL every request is rooted at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and returns the response body.
func (c *Client) Get(ctx context.Context, uri string) (string, error) {
	return c.do(ctx, http.MethodGet, uri, nil, nil)
}

// Put issues a PUT with a JSON body and returns the response body.
func (c *Client) Put(ctx context.Context, uri, body string) (string, error) {
	return c.do(ctx, http.MethodPut, uri, &body, nil)
}

// Delete issues a DELETE and returns the response body.
func (c *Client) Delete(ctx context.Context, uri string) (string, error) {
	return c.do(ctx, http.MethodDelete, uri, nil, nil)
}

// PostWithAuthHeader issues a POST carrying basic credentials.
func (c *Client) PostWithAuthHeader(ctx context.Context, uri, body, username, password string) (string, error) {
	return c.do(ctx, http.MethodPost, uri, &body, &basicAuth{username: username, password: password})
}

func (c *Client) do(ctx context.Context, method, uri string, body *string, auth *basicAuth) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(*body)
	}

	target := c.baseURL + uri
	req, err := http.NewRequestWithContext(requestCtx, method, target, reader)
	if err != nil {
		return "", &Error{Code: "request_failed", Message: "failed to build request", Detail: err.Error(), Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != nil {
		req.SetBasicAuth(auth.username, auth.password)
	}

	c.logger.Debug("southbound request",
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyRequestError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyRequestError(err)
	}

	if !IsSuccess(resp.StatusCode) {
		c.logger.Debug("southbound error response",
			zap.String("method", method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return "", NewResponseError(resp.StatusCode, string(payload))
	}
	return string(payload), nil
}
