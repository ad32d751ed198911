// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// FallbackReply replaces any upstream failure.
const FallbackReply = "I'm having trouble connecting to the AI right now. Please try again later."

// Greeting opens every conversation.
const Greeting = "Hello! I'm your AI travel assistant. How can I help you plan your customized trip today?"

// timestampLayout renders the clock the way the preamble expects it.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// Source says which path produced a Reply.
type Source int

const (
	// SourceModel is a direct completion from the configured model.
	SourceModel Source = iota
	// SourceBackend is the backend /ai/chat endpoint.
	SourceBackend
	// SourceFallback is the placeholder shown after a failure.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceBackend:
		return "backend"
	case SourceFallback:
		return "fallback"
	}
	return "unknown"
}

// Reply is the assistant's answer to one prompt.
type Reply struct {
	Text   string
	Source Source
	// Err is the failure behind a fallback reply. It is for logs only and
	// never shown to the user.
	Err error
}

// Failed reports whether the reply is the fallback placeholder.
func (r Reply) Failed() bool {
	return r.Source == SourceFallback
}

// Completer is a prompt-in/text-out model. *OpenRouter implements it.
type Completer interface {
	IsConfigured() bool
	Complete(ctx context.Context, messages []Message) (string, error)
}

// BackendChat is the backend chat endpoint. *api.Client implements it.
type BackendChat interface {
	Chat(ctx context.Context, message, tripID string) (string, error)
}

// Assistant answers travel questions.
type Assistant struct {
	model   Completer
	backend BackendChat
	now     func() time.Time
	logger  *slog.Logger
}

// New creates an assistant. Prompts go to model when it is configured and
// to backend otherwise. Either may be nil.
func New(model Completer, backend BackendChat) *Assistant {
	return &Assistant{
		model:   model,
		backend: backend,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithClock replaces the clock used for the preamble timestamp.
func (a *Assistant) WithClock(now func() time.Time) *Assistant {
	a.now = now
	return a
}

// WithLogger sets the logger that receives upstream failures.
func (a *Assistant) WithLogger(logger *slog.Logger) *Assistant {
	a.logger = logger
	return a
}

// UsesModel reports whether prompts go straight to the model.
func (a *Assistant) UsesModel() bool {
	return a.model != nil && a.model.IsConfigured()
}

// Prompt wraps the user's question with the system preamble and timestamp.
func Prompt(now time.Time, question string) string {
	return fmt.Sprintf("Current System Date/Time: %s. You are Journey360 AI, a helpful travel assistant. \n\nUser Query: %s",
		now.Format(timestampLayout), question)
}

// Ask answers question. tripID is optional context for the backend path.
// Ask never returns an upstream error: failures become FallbackReply.
// A blank question returns an empty Reply without any call.
func (a *Assistant) Ask(ctx context.Context, question, tripID string) Reply {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}
	}

	var (
		text string
		src  Source
		err  error
	)
	switch {
	case a.UsesModel():
		src = SourceModel
		text, err = a.model.Complete(ctx, []Message{UserMessage(Prompt(a.now(), question))})
	case a.backend != nil:
		src = SourceBackend
		text, err = a.backend.Chat(ctx, question, tripID)
	default:
		err = errors.New("no assistant configured")
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}

	if err != nil {
		a.logger.WarnContext(ctx, "assistant request failed", "source", src.String(), "error", err)
		return Reply{Text: FallbackReply, Source: SourceFallback, Err: err}
	}
	return Reply{Text: text, Source: src}
}
