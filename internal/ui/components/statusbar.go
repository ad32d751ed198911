// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status is the severity of the transient status line.
type Status int

const (
	StatusNone Status = iota
	StatusInfo
	StatusSuccess
	StatusWarning
	StatusError
)

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: a status message on the left, key hints on
// the right.
type StatusBar struct {
	Shortcuts []Shortcut
	Message   string
	Status    Status
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetShortcuts replaces the key hints.
func (s *StatusBar) SetShortcuts(sc ...Shortcut) {
	s.Shortcuts = sc
}

// SetStatus shows a message with the given severity.
func (s *StatusBar) SetStatus(status Status, message string) {
	s.Status = status
	s.Message = message
}

// Clear removes the status message.
func (s *StatusBar) Clear() {
	s.Status = StatusNone
	s.Message = ""
}

// View renders the status bar. Hints that do not fit are dropped from the
// end.
func (s *StatusBar) View() string {
	width := s.Width
	if width < minContentWidth {
		width = minContentWidth
	}
	inner := width - s.theme.StatusBar.GetHorizontalFrameSize()

	left := s.renderMessage()
	budget := inner - lipgloss.Width(left) - 2

	var hints []string
	used := 0
	for _, sc := range s.Shortcuts {
		h := s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDsc.Render(sc.Desc)
		w := lipgloss.Width(h)
		if used > 0 {
			w += 2
		}
		if used+w > budget {
			break
		}
		hints = append(hints, h)
		used += w
	}
	right := strings.Join(hints, "  ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderMessage() string {
	msg := truncate(s.Message, 60)
	switch s.Status {
	case StatusInfo:
		return styles.RenderInfo(msg)
	case StatusSuccess:
		return styles.RenderSuccess(msg)
	case StatusWarning:
		return styles.RenderWarning(msg)
	case StatusError:
		return styles.RenderError(msg)
	}
	return ""
}
