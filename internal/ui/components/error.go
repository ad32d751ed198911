// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// ALERT OVERLAY
// =============================================================================

// AlertDismissHint is printed under every blocking alert.
const AlertDismissHint = "Press Enter to continue"

// AlertOverlay renders a blocking alert centred in a width x height area.
// Pages show it for failures that stop a flow, such as trip creation.
func AlertOverlay(theme *styles.Theme, width, height int, title, message string) string {
	boxWidth := width - 8
	if boxWidth > 64 {
		boxWidth = 64
	}
	inner := contentWidth(boxWidth, theme.AlertBox.GetHorizontalFrameSize())

	body := theme.AlertTitle.Render(styles.StatusIndicators.Error+" "+title) + "\n\n" +
		wrapText(message, inner) + "\n\n" +
		theme.Muted.Render(AlertDismissHint)
	box := theme.AlertBox.Width(inner + theme.AlertBox.GetHorizontalPadding()).Render(body)

	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// NOT FOUND
// =============================================================================

// NotFoundTitle is the heading of the full-page not-found view.
const NotFoundTitle = "Itinerary not found"

// NotFoundPage replaces the whole page body when a fetch fails.
func NotFoundPage(theme *styles.Theme, width, height int, detail string) string {
	body := theme.NotFound.Render(NotFoundTitle)
	if detail != "" {
		body += "\n" + theme.Muted.Render(wrapText(detail, contentWidth(width, 8)))
	}
	body += "\n\n" + theme.Muted.Render("Press Esc to go back to your trips")
	if width <= 0 || height <= 0 {
		return body
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// =============================================================================
// INLINE MESSAGES
// =============================================================================

// InlineError renders a one-line error under a form.
// ACCESSIBILITY: the [X] indicator carries the meaning without colour.
func InlineError(theme *styles.Theme, message string) string {
	if message == "" {
		return ""
	}
	return theme.FieldError.Render(styles.StatusIndicators.Error + " " + message)
}

// InlineInfo renders a one-line hint.
func InlineInfo(theme *styles.Theme, message string) string {
	if message == "" {
		return ""
	}
	return theme.Muted.Render(styles.StatusIndicators.Info + " " + message)
}
