// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question to the travel assistant.
//
// Examples:
//   journey360 ask "What should I pack for Kyoto in April?"
//   journey360 ask --trip 6f1c "Is day 2 too busy?"
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/assistant"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
)

// AskData is the JSON payload of the ask command.
type AskData struct {
	Question string `json:"question"`
	Reply    string `json:"reply"`
	Source   string `json:"source"`
	TripID   string `json:"trip_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// needsSignIn reports whether a question goes through the backend, which
// requires a signed-in user.
func needsSignIn(env *Env, tripID string) bool {
	return !env.Assistant.UsesModel() || tripID != ""
}

// HandleAsk asks one question. A failed reply still prints the fallback
// text; the failure is logged and reported in JSON.
func HandleAsk(ctx context.Context, env *Env, args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return ErrMissingArgument("question", `journey360 ask "Best time to visit Kyoto?"`)
	}
	if needsSignIn(env, args.TripID) {
		if err := env.SignIn(ctx, args); err != nil {
			return err
		}
	}
	return OutputJSON(env.Out, args.JSON, "ask", func() (interface{}, error) {
		r := env.Assistant.Ask(ctx, question, args.TripID)
		if r.Failed() {
			env.Logger.Warn("assistant reply failed", "source", r.Source.String(), "error", r.Err)
		}
		if !args.JSON {
			fmt.Fprintln(env.Out, renderReply(env, r))
		}
		data := AskData{Question: question, Reply: r.Text, Source: r.Source.String(), TripID: args.TripID}
		if r.Err != nil {
			data.Error = r.Err.Error()
		}
		return data, nil
	})
}

// renderReply renders Markdown on a terminal and returns plain text otherwise.
func renderReply(env *Env, r assistant.Reply) string {
	if !IsStdoutTTY() || !env.Config.UI.Markdown {
		return r.Text
	}
	style := "light"
	if strings.ToLower(env.Config.UI.Theme) != "light" {
		style = "dark"
	}
	return components.NewMarkdown(style, true).Render(r.Text, GetTerminalWidth()-2)
}
