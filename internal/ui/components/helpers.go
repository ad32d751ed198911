// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// minContentWidth keeps layouts legible on tiny terminals.
const minContentWidth = 20

// wrapText word-wraps s to width, hard-breaking words longer than a line.
func wrapText(s string, width int) string {
	if width < minContentWidth {
		width = minContentWidth
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// indentText indents every line of s by n spaces.
func indentText(s string, n int) string {
	if n <= 0 {
		return s
	}
	return indent.String(s, uint(n))
}

// truncate shortens s to width display cells with an ellipsis.
func truncate(s string, width int) string {
	return util.TruncateWidth(util.SingleLine(s), width)
}

// contentWidth returns width minus frame, never below minContentWidth.
func contentWidth(width, frame int) int {
	w := width - frame
	if w < minContentWidth {
		return minContentWidth
	}
	return w
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
