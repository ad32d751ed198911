// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/journey360-tui/internal/config"
)

// Configuration constants for the backend client.
const (
	// DefaultTimeout covers itinerary generation, which can take a minute.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxResponseSize caps response bodies.
	// SECURITY: Response size limit prevents memory exhaustion.
	DefaultMaxResponseSize = 8 * 1024 * 1024

	// RequestIDHeader carries a per-request UUID for correlating logs.
	RequestIDHeader = "X-Request-ID"

	userAgent = "journey360-tui/1.0"
)

// TokenSource supplies the bearer token for the signed-in user.
// *session.Session implements it.
type TokenSource interface {
	SignedIn() bool
	Token(ctx context.Context) (string, error)
}

// Client talks to the Journey360 backend.
type Client struct {
	baseURL     string
	tokens      TokenSource
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxResponse int64
	logger      *slog.Logger
}

// New creates a client for baseURL. Requests are unthrottled until
// WithRateLimit is called.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokens:      tokens,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Inf, 1),
		maxResponse: DefaultMaxResponseSize,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewFromConfig creates a client from BackendConfig.
func NewFromConfig(cfg config.BackendConfig, tokens TokenSource, logger *slog.Logger) *Client {
	c := New(cfg.URL, tokens).WithRateLimit(cfg.RequestsPerSecond, cfg.Burst)
	if cfg.TimeoutSecs > 0 {
		c = c.WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second)
	}
	if cfg.MaxResponseMB > 0 {
		c = c.WithMaxResponseSize(int64(cfg.MaxResponseMB) * 1024 * 1024)
	}
	if logger != nil {
		c = c.WithLogger(logger)
	}
	return c
}

// WithHTTPClient replaces the HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	hc := *c.httpClient
	hc.Timeout = timeout
	c.httpClient = &hc
	return c
}

// WithRateLimit throttles requests client-side. rps <= 0 disables throttling.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithMaxResponseSize caps response bodies.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	c.maxResponse = n
	return c
}

// WithLogger sets the request logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// call describes one backend request.
type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	failMsg string
}

// do performs c and decodes a success body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if c.tokens == nil || !c.tokens.SignedIn() {
		return ErrUnauthenticated
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !c.tokens.SignedIn() {
			// The provider ended the session while refreshing.
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		// Still signed in: the refresh failed transiently and may succeed later.
		return &RequestError{Op: cl.op, Message: cl.failMsg, Cause: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &RequestError{Op: cl.op, Message: cl.failMsg, Cause: err}
	}

	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return &RequestError{Op: cl.op, Message: cl.failMsg, Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "api request failed",
			"op", cl.op,
			"method", cl.method,
			"path", cl.path,
			"request_id", requestID,
			"error", err,
		)
		return &RequestError{Op: cl.op, Message: cl.failMsg, RequestID: requestID, Cause: err}
	}
	defer resp.Body.Close()

	// SECURITY: Never log headers or bodies; they carry the token and user data.
	c.logger.InfoContext(ctx, "api request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	data, err := c.readBody(resp)
	if err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &MalformedResponseError{Op: cl.op, Cause: err}
		}
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Message: cl.failMsg, RequestID: requestID, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := parseDetail(data)
		msg := cl.failMsg
		if detail != "" {
			msg = detail
		}
		return &RequestError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Detail:     detail,
			RequestID:  requestID,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Op: cl.op, Cause: err}
	}
	return nil
}

// readBody reads the response with the size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.maxResponse {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", c.maxResponse)
	}
	return data, nil
}

// parseDetail extracts the backend's error detail. The backend returns
// {"detail": "..."} for application errors and {"detail": [{"msg": ...}]}
// for request validation errors.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// validate runs v.Validate and wraps failures as malformed responses.
func validate(op string, v interface{ Validate() error }) error {
	if err := v.Validate(); err != nil {
		return &MalformedResponseError{Op: op, Cause: err}
	}
	return nil
}

// requireID rejects empty identifiers before a request is built.
func requireID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: trip id is required", op)
	}
	return nil
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
