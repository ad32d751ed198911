// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// LodgingList renders the recommended hotels. selected is the highlighted
// row, or -1.
func LodgingList(theme *styles.Theme, hotels []trip.Lodging, selected, width int) string {
	if len(hotels) == 0 {
		return theme.Muted.Render("No hotel recommendations for this trip.")
	}
	inner := contentWidth(width, theme.Card.GetHorizontalFrameSize())

	var sb strings.Builder
	sb.WriteString(theme.CardTitle.Render("Where to stay") + "\n")
	for i := range hotels {
		h := &hotels[i]
		name := truncate(h.Name, inner-12)
		if i == selected {
			name = theme.PlaceOn.Render("> " + name)
		} else {
			name = theme.PlaceName.Render(name)
		}
		line := theme.HotelBadge.Render("H") + " " + name
		if r := h.Rating.String(); r != "" {
			line += theme.Muted.Render("  * " + r)
		}
		sb.WriteString(line + "\n")

		meta := joinNonEmpty("  ", mutedIf(theme, h.Price.String()), mutedIf(theme, h.Vibe))
		if meta != "" {
			sb.WriteString("  " + meta + "\n")
		}
		if h.Description != "" {
			sb.WriteString(indentText(theme.Muted.Render(wrapText(h.Description, inner-2)), 2) + "\n")
		}
		p := h.AsPlace()
		if i == selected {
			sb.WriteString("  " + theme.ShortcutKey.Render(BookHint) + " " +
				styles.RenderLink(truncate(p.BookingSearchURL(), inner-12)) + "\n")
		}
	}
	return sb.String()
}
