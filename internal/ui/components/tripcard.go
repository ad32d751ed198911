// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// TripCard renders one trip summary.
func TripCard(theme *styles.Theme, t trip.Trip, selected bool, width int) string {
	style := theme.Card
	if selected {
		style = theme.CardSelected
	}
	inner := contentWidth(width, style.GetHorizontalFrameSize())

	title := truncate(t.Destination, inner-14)
	head := theme.CardTitle.Render(title)
	if t.Status != "" {
		head += "  " + theme.Muted.Render(strings.ToLower(t.Status))
	}

	facts := joinNonEmpty("  ",
		mutedIf(theme, t.DateRange()),
		mutedIf(theme, daysLabel(t.Days)),
		theme.Cost.Render(util.FormatMoney(util.DefaultCurrency, float64(t.Budget))),
		mutedIf(theme, string(t.Pace)),
	)
	body := head + "\n" + facts
	if len(t.Interests) > 0 {
		body += "\n" + theme.Subtitle.Render(truncate(strings.Join(t.Interests, ", "), inner))
	}
	return style.Width(inner + style.GetHorizontalPadding()).Render(body)
}

func daysLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// TripList renders trips as cards. An empty list shows emptyText.
func TripList(theme *styles.Theme, trips []trip.Trip, selected, width int, emptyText string) string {
	if len(trips) == 0 {
		return theme.Muted.Render(emptyText)
	}
	cards := make([]string, len(trips))
	for i := range trips {
		cards[i] = TripCard(theme, trips[i], i == selected, width)
	}
	return strings.Join(cards, "\n")
}
