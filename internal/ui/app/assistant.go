// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/journey360-tui/internal/assistant"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// ASSISTANT - chat with the travel AI
// =============================================================================

// Greeting opens every conversation.
const Greeting = "Hello! I'm your AI travel assistant. How can I help you plan your customized trip today?"

var assistantKeys = struct {
	Send, ScrollUp, ScrollDown key.Binding
}{
	Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp/PgDn", "scroll")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown")),
}

type replyMsg struct {
	pageMsg
	reply assistant.Reply
}

type assistantPage struct {
	base
	tripID   string
	messages []components.ChatMessage
	draft    textinput.Model
	waiting  bool
	spinner  components.Spinner
	viewport viewport.Model
}

func newAssistantPage(sh *shell, tripID string) *assistantPage {
	draft := textinput.New()
	draft.Prompt = "> "
	draft.Placeholder = "Ask about destinations, budgets, packing..."
	draft.CharLimit = 2000
	draft.Focus()
	return &assistantPage{
		base:   sh.newBase(),
		tripID: tripID,
		messages: []components.ChatMessage{
			{ID: uuid.NewString(), Role: components.RoleAssistant, Text: Greeting},
		},
		draft:    draft,
		spinner:  components.NewSpinner(sh.theme, styles.DotsSpinner),
		viewport: viewport.New(80, 20),
	}
}

func (p *assistantPage) init() tea.Cmd { return textinput.Blink }

// capturing is always true: the draft keeps focus.
func (p *assistantPage) capturing() bool { return true }

func (p *assistantPage) shortcuts() []components.Shortcut {
	return []components.Shortcut{shortcut(assistantKeys.Send), shortcut(assistantKeys.ScrollUp)}
}

func (p *assistantPage) send() tea.Cmd {
	question := strings.TrimSpace(p.draft.Value())
	if question == "" || p.waiting {
		return nil
	}
	p.draft.SetValue("")
	p.messages = append(p.messages, components.ChatMessage{ID: uuid.NewString(), Role: components.RoleUser, Text: question})
	p.viewport.GotoBottom()

	if p.deps.Assistant == nil {
		p.messages = append(p.messages, components.ChatMessage{
			ID: uuid.NewString(), Role: components.RoleAssistant, Text: assistant.FallbackReply, Failed: true,
		})
		return nil
	}
	p.waiting = true
	ai, tag, tripID := p.deps.Assistant, p.tag(), p.tripID
	ctx, done := p.cancels.begin(context.Background())
	return tea.Batch(p.spinner.Start("Journey360 AI is typing"), func() tea.Msg {
		defer done()
		return replyMsg{pageMsg: tag, reply: ai.Ask(ctx, question, tripID)}
	})
}

func (p *assistantPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case replyMsg:
		p.waiting = false
		p.spinner.Stop()
		if msg.reply.Err != nil {
			p.logger.Warn("assistant reply failed", "source", msg.reply.Source.String(), "error", msg.reply.Err)
		}
		p.messages = append(p.messages, components.ChatMessage{
			ID:     uuid.NewString(),
			Role:   components.RoleAssistant,
			Text:   msg.reply.Text,
			Failed: msg.reply.Failed(),
		})
		p.viewport.GotoBottom()
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, assistantKeys.Send):
			return p.send()
		case key.Matches(msg, assistantKeys.ScrollUp):
			p.viewport.HalfViewUp()
			return nil
		case key.Matches(msg, assistantKeys.ScrollDown):
			p.viewport.HalfViewDown()
			return nil
		}
		var cmd tea.Cmd
		p.draft, cmd = p.draft.Update(msg)
		return cmd
	}

	if p.waiting {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	p.draft, cmd = p.draft.Update(msg)
	return cmd
}

func (p *assistantPage) view(width, height int) string {
	th := p.theme
	title := th.PageTitle.Render("AI Travel Assistant")
	if p.tripID != "" {
		title += th.Muted.Render("  trip " + p.tripID)
	}

	transcript := components.Transcript(th, p.messages, p.md, width-2)
	if p.waiting {
		transcript += "\n\n" + p.spinner.View()
	}

	footer := p.draft.View()
	atBottom := p.viewport.AtBottom()
	p.viewport.Width = width
	p.viewport.Height = max(height-4, 3)
	p.viewport.SetContent(transcript)
	if atBottom {
		p.viewport.GotoBottom()
	}
	return title + "\n" + p.viewport.View() + "\n\n" + footer
}
