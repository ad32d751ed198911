// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/journey360-tui/internal/config"
)

const testKey = "sk-or-test-abcdefghijklmnopqrstuvwxyz0123456789"

// newOpenRouterServer answers every completion with reply, recording the
// last request body.
func newOpenRouterServer(t *testing.T, status int, reply string) (*httptest.Server, *completionRequest) {
	t.Helper()
	var last completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func completion(text string) string {
	data, _ := json.Marshal(map[string]any{
		"id":    "gen-1",
		"model": DefaultModel,
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": text}, "finish_reason": "stop"},
		},
	})
	return string(data)
}

type fakeBackend struct {
	calls  atomic.Int32
	reply  string
	err    error
	tripID string
}

func (f *fakeBackend) Chat(_ context.Context, message, tripID string) (string, error) {
	f.calls.Add(1)
	f.tripID = tripID
	if f.err != nil {
		return "", f.err
	}
	return f.reply + message, nil
}

// =============================================================================
// PROMPT
// =============================================================================

func TestPrompt(t *testing.T) {
	now := time.Date(2025, 4, 1, 14, 5, 9, 0, time.UTC)
	got := Prompt(now, "Best ramen in Kyoto?")
	assert.Equal(t,
		"Current System Date/Time: 4/1/2025, 2:05:09 PM. You are Journey360 AI, a helpful travel assistant. \n\nUser Query: Best ramen in Kyoto?",
		got)
}

// =============================================================================
// MODEL PATH
// =============================================================================

func TestAssistant_ModelReply(t *testing.T) {
	srv, last := newOpenRouterServer(t, http.StatusOK, completion("Try **Ippudo**."))
	model := NewOpenRouter(testKey).WithBaseURL(srv.URL + "/")
	backend := &fakeBackend{}
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	a := New(model, backend).WithClock(func() time.Time { return now })
	require.True(t, a.UsesModel())

	r := a.Ask(context.Background(), "  ramen?  ", "trip-1")
	assert.Equal(t, "Try **Ippudo**.", r.Text)
	assert.Equal(t, SourceModel, r.Source)
	assert.False(t, r.Failed())
	assert.Zero(t, backend.calls.Load(), "backend is not used when a model is configured")

	require.Len(t, last.Messages, 1)
	assert.Equal(t, "user", last.Messages[0].Role)
	assert.Equal(t, Prompt(now, "ramen?"), last.Messages[0].Content)
	assert.Equal(t, DefaultModel, last.Model)
}

func TestAssistant_FailuresBecomeFallback(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":401,"message":"No auth credentials found"}}`, ErrAuthFailed},
		{"credits", http.StatusPaymentRequired, `{}`, ErrInsufficientCredits},
		{"rate limit", http.StatusTooManyRequests, `{"error":{"code":"rate_limit","message":"slow down"}}`, ErrRateLimited},
		{"unknown model", http.StatusNotFound, ``, ErrModelNotFound},
		{"empty choices", http.StatusOK, `{"choices":[]}`, ErrEmptyCompletion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newOpenRouterServer(t, tt.status, tt.body)
			a := New(NewOpenRouter(testKey).WithBaseURL(srv.URL), nil)

			r := a.Ask(context.Background(), "hello", "")
			assert.Equal(t, FallbackReply, r.Text)
			assert.True(t, r.Failed())
			assert.ErrorIs(t, r.Err, tt.wantErr)
		})
	}
}

func TestAssistant_ServerErrorIsUpstreamError(t *testing.T) {
	srv, _ := newOpenRouterServer(t, http.StatusBadGateway, `{"error":{"code":502,"message":"provider down"}}`)
	r := New(NewOpenRouter(testKey).WithBaseURL(srv.URL), nil).Ask(context.Background(), "hello", "")

	var ue *UpstreamError
	require.True(t, errors.As(r.Err, &ue))
	assert.Equal(t, 502, ue.Status)
	assert.Equal(t, "502", ue.Code)
	assert.Equal(t, "provider down", ue.Message)
}

func TestAssistant_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := New(NewOpenRouter(testKey).WithBaseURL(url), nil).Ask(context.Background(), "hello", "")
	assert.Equal(t, FallbackReply, r.Text)
	assert.Error(t, r.Err)
}

// =============================================================================
// BACKEND PATH
// =============================================================================

func TestAssistant_BackendWhenNoKey(t *testing.T) {
	backend := &fakeBackend{reply: "backend says: "}
	a := New(NewOpenRouter(""), backend)
	require.False(t, a.UsesModel())

	r := a.Ask(context.Background(), "hi", "trip-9")
	assert.Equal(t, "backend says: hi", r.Text)
	assert.Equal(t, SourceBackend, r.Source)
	assert.Equal(t, "trip-9", backend.tripID)
}

func TestAssistant_BackendFailure(t *testing.T) {
	boom := errors.New("Failed to chat with AI")
	r := New(nil, &fakeBackend{err: boom}).Ask(context.Background(), "hi", "")
	assert.Equal(t, FallbackReply, r.Text)
	assert.ErrorIs(t, r.Err, boom)
}

func TestAssistant_NothingConfigured(t *testing.T) {
	r := New(nil, nil).Ask(context.Background(), "hi", "")
	assert.True(t, r.Failed())
}

func TestAssistant_BlankQuestion(t *testing.T) {
	backend := &fakeBackend{}
	r := New(nil, backend).Ask(context.Background(), "   ", "")
	assert.Equal(t, Reply{}, r)
	assert.Zero(t, backend.calls.Load())
}

// =============================================================================
// CLIENT
// =============================================================================

func TestOpenRouter_NotConfigured(t *testing.T) {
	_, err := NewOpenRouter("  ").Complete(context.Background(), []Message{UserMessage("x")})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenRouter_FromConfig(t *testing.T) {
	c := NewOpenRouterFromConfig(config.AIConfig{
		OpenRouterKey: testKey,
		Model:         "openai/gpt-4o-mini",
		BaseURL:       "https://example.test/api/v1/",
		TimeoutSecs:   5,
	}, nil)
	assert.Equal(t, "openai/gpt-4o-mini", c.Model())
	assert.Equal(t, "https://example.test/api/v1", c.baseURL)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestOpenRouter_KeyFingerprint(t *testing.T) {
	c := NewOpenRouter(testKey)
	fp := c.KeyFingerprint()
	assert.Len(t, fp, 8)
	assert.False(t, strings.Contains(testKey, fp))
	assert.Equal(t, "none", NewOpenRouter("").KeyFingerprint())
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "model", SourceModel.String())
	assert.Equal(t, "backend", SourceBackend.String())
	assert.Equal(t, "fallback", SourceFallback.String())
	assert.Equal(t, "unknown", Source(9).String())
}
