// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - brand, navigation and signed-in user
// =============================================================================

// Brand is the product name shown in the header.
const Brand = "Journey360"

// NavTab is one entry of the navigation bar.
type NavTab struct {
	Key   string // shortcut, e.g. "1"
	Label string
}

// Header is the top bar of every signed-in page.
type Header struct {
	Tabs   []NavTab
	Active int    // index into Tabs; -1 when no tab is current
	User   string // email of the signed-in user, empty when signed out
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a header with the given navigation tabs.
func NewHeader(theme *styles.Theme, tabs []NavTab) *Header {
	return &Header{Tabs: tabs, Active: -1, Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetActive marks a tab as the current page.
func (h *Header) SetActive(i int) {
	h.Active = i
}

// SetUser updates the signed-in user shown on the right.
func (h *Header) SetUser(email string) {
	h.User = email
}

// View renders the header. Narrow terminals drop the tab shortcuts and
// the user.
func (h *Header) View() string {
	narrow := h.theme.GetLayoutMode() == styles.LayoutNarrow

	brand := h.theme.HeaderBrand.Render(Brand)
	tabs := make([]string, 0, len(h.Tabs))
	for i, t := range h.Tabs {
		label := t.Label
		if !narrow && t.Key != "" {
			label = t.Key + " " + label
		}
		if i == h.Active {
			tabs = append(tabs, h.theme.NavTabOn.Render(label))
		} else {
			tabs = append(tabs, h.theme.NavTab.Render(label))
		}
	}
	left := brand + "  " + strings.Join(tabs, "")

	right := ""
	if !narrow && h.User != "" {
		right = h.theme.HeaderUser.Render(h.User)
	}

	width := h.Width
	if width < minContentWidth {
		width = minContentWidth
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - h.theme.Header.GetHorizontalFrameSize()
	if gap < 1 {
		gap = 1
		right = ""
	}
	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
