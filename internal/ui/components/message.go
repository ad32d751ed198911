// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// Markdown renders assistant replies with glamour. Renderers are cached per
// wrap width because building one parses the whole style sheet.
type Markdown struct {
	mu        sync.Mutex
	style     string
	enabled   bool
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer. style is a glamour standard style
// ("dark", "light", "notty", ...); empty picks one from the terminal.
// A disabled renderer only word-wraps.
func NewMarkdown(style string, enabled bool) *Markdown {
	return &Markdown{style: style, enabled: enabled, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render converts md to styled terminal text wrapped at width. Render
// failures fall back to plain wrapped text.
func (m *Markdown) Render(md string, width int) string {
	if width < minContentWidth {
		width = minContentWidth
	}
	if m == nil || !m.enabled {
		return wrapText(md, width)
	}
	r, err := m.renderer(width)
	if err != nil {
		return wrapText(md, width)
	}
	out, err := r.Render(md)
	if err != nil {
		return wrapText(md, width)
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if m.style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(m.style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

// =============================================================================
// CHAT BUBBLES
// =============================================================================

// Role identifies the author of a chat message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// ChatMessage is one entry of the assistant transcript.
type ChatMessage struct {
	ID     string
	Role   Role
	Text   string
	Failed bool // the reply is the fallback placeholder
}

// ChatBubble renders one message. User messages are plain text on a
// coloured block; assistant replies go through md.
func ChatBubble(theme *styles.Theme, msg ChatMessage, md *Markdown, width int) string {
	maxWidth := width * 3 / 4
	if maxWidth < minContentWidth+4 {
		maxWidth = minContentWidth + 4
	}

	switch msg.Role {
	case RoleUser:
		inner := maxWidth - theme.UserBubble.GetHorizontalFrameSize()
		text := wrapText(msg.Text, inner)
		bubble := theme.UserBubble.Render(text)
		label := theme.Sender.Render("You")
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)

	default:
		inner := maxWidth - theme.AssistantBubble.GetHorizontalFrameSize()
		var text string
		if msg.Failed {
			text = styles.RenderWarning(wrapText(msg.Text, inner))
		} else {
			text = md.Render(msg.Text, inner)
		}
		label := theme.Sender.Render("Journey360 AI")
		return lipgloss.JoinVertical(lipgloss.Left, label, theme.AssistantBubble.Render(text))
	}
}

// Transcript renders the conversation top to bottom.
func Transcript(theme *styles.Theme, msgs []ChatMessage, md *Markdown, width int) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = ChatBubble(theme, m, md, width)
	}
	return strings.Join(parts, "\n\n")
}
