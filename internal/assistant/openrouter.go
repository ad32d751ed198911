// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/journey360-tui/internal/config"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultOpenRouterURL is the base URL for the OpenRouter API.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when the config names none.
	DefaultModel = "google/gemini-2.0-flash-001"

	// DefaultTimeout bounds one completion.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 4 * 1024 * 1024

	siteURL  = "https://journey360.app"
	siteName = "Journey360"
)

// Error variables for common OpenRouter errors.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("OpenRouter API key not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the configured model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account is out of credits.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrEmptyCompletion indicates a success response without any text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// UpstreamError is an error response from OpenRouter that maps to no sentinel.
type UpstreamError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("OpenRouter error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("OpenRouter error (HTTP %d): %s", e.Status, e.Message)
}

// Message is one entry of a chat-completions conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		// Code is a number on some providers and a string on others.
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// OpenRouter is a chat-completions client for openrouter.ai.
type OpenRouter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenRouter creates a client with the given API key. An empty key
// yields a client whose Complete fails with ErrNotConfigured.
func NewOpenRouter(apiKey string) *OpenRouter {
	return &OpenRouter{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultOpenRouterURL,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewOpenRouterFromConfig creates a client from AIConfig.
func NewOpenRouterFromConfig(cfg config.AIConfig, logger *slog.Logger) *OpenRouter {
	c := NewOpenRouter(cfg.OpenRouterKey)
	if cfg.BaseURL != "" {
		c.WithBaseURL(cfg.BaseURL)
	}
	if cfg.Model != "" {
		c.model = cfg.Model
	}
	if cfg.TimeoutSecs > 0 {
		c.WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second)
	}
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithBaseURL sets a custom base URL for the API.
func (c *OpenRouter) WithBaseURL(url string) *OpenRouter {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the request timeout.
func (c *OpenRouter) WithTimeout(timeout time.Duration) *OpenRouter {
	hc := *c.httpClient
	hc.Timeout = timeout
	c.httpClient = &hc
	return c
}

// WithHTTPClient replaces the HTTP client.
func (c *OpenRouter) WithHTTPClient(hc *http.Client) *OpenRouter {
	c.httpClient = hc
	return c
}

// Model returns the model identifier requests are sent to.
func (c *OpenRouter) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is set.
func (c *OpenRouter) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint identifies the key in logs without exposing it.
// SECURITY: Never log any part of the key itself.
func (c *OpenRouter) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// Complete sends messages and returns the first choice's text.
func (c *OpenRouter) Complete(ctx context.Context, messages []Message) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	data, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", siteURL)
	req.Header.Set("X-Title", siteName)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// SECURITY: Log status and timing only; the body holds the user's prompt.
	c.logger.InfoContext(ctx, "openrouter completion",
		"model", c.model,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"key", c.KeyFingerprint(),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return "", fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp.StatusCode, body)
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}

// errorFromResponse converts an error status into a sentinel or UpstreamError.
func errorFromResponse(status int, body []byte) error {
	var sentinel error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrAuthFailed
	case http.StatusPaymentRequired:
		sentinel = ErrInsufficientCredits
	case http.StatusNotFound:
		sentinel = ErrModelNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	}

	var apiErr apiErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		if sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, apiErr.Error.Message)
		}
		return &UpstreamError{
			Code:    strings.Trim(string(apiErr.Error.Code), `"`),
			Message: apiErr.Error.Message,
			Status:  status,
		}
	}
	if sentinel != nil {
		return sentinel
	}
	return &UpstreamError{Message: strings.TrimSpace(string(body)), Status: status}
}
