// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// DAY TABS
// =============================================================================

// DayTabs renders one tab per day with the active one highlighted. Tabs that
// do not fit collapse into a "+N" counter.
func DayTabs(theme *styles.Theme, it *trip.Itinerary, active, width int) string {
	if it == nil || len(it.Days) == 0 {
		return ""
	}
	var tabs []string
	used := 0
	for i := range it.Days {
		d := &it.Days[i]
		style := theme.DayTab
		if d.Number == active {
			style = theme.DayTabOn
		}
		tab := style.Render(d.Label())
		if width > 0 && used+lipgloss.Width(tab) > width-6 && i > 0 {
			tabs = append(tabs, theme.Muted.Render(fmt.Sprintf(" +%d", len(it.Days)-i)))
			break
		}
		tabs = append(tabs, tab)
		used += lipgloss.Width(tab)
	}
	return strings.Join(tabs, "")
}

// =============================================================================
// TIMELINE
// =============================================================================

// BookHint is shown next to lodging rows.
const BookHint = "b: Book"

// Timeline renders the day's places as a vertical list. selected is the
// index of the highlighted place, or -1.
func Timeline(theme *styles.Theme, d *trip.Day, currency string, selected, width int) string {
	if d == nil {
		return theme.Muted.Render("No day selected")
	}
	inner := contentWidth(width, 4)

	var sb strings.Builder
	head := theme.CardTitle.Render(d.Label())
	if d.Date != "" {
		head += theme.Muted.Render("  " + d.Date)
	}
	sb.WriteString(head + "\n")
	if d.WeatherNote != "" {
		sb.WriteString(theme.Subtitle.Render(truncate(d.WeatherNote, inner)) + "\n")
	}
	if len(d.Places) == 0 {
		sb.WriteString(theme.Muted.Render("Nothing planned for this day yet.") + "\n")
		return sb.String()
	}

	for i := range d.Places {
		p := &d.Places[i]
		last := i == len(d.Places)-1
		sb.WriteString(timelineEntry(theme, p, currency, i == selected, last, inner))
	}
	if d.TotalDayCost > 0 {
		sb.WriteString(theme.StatLabel.Render("Day total ") +
			theme.Cost.Render(util.FormatMoney(currency, float64(d.TotalDayCost))) + "\n")
	}
	return sb.String()
}

func timelineEntry(theme *styles.Theme, p *trip.Place, currency string, selected, last bool, width int) string {
	prefix := styles.RenderTreeLine(last)
	cont := styles.TreeChars.Pipe + "  "
	if last {
		cont = "   "
	}

	name := truncate(p.Name, max(width-lipgloss.Width(prefix)-14, 10))
	if selected {
		name = theme.PlaceOn.Render("> " + name)
	} else {
		name = theme.PlaceName.Render(name)
	}

	line := prefix
	if p.TimeSlot != "" {
		line += theme.TimeSlot.Render(p.TimeSlot) + "  "
	}
	line += name
	if p.IsLodging() {
		line += " " + theme.HotelBadge.Render("HOTEL")
	}

	meta := joinNonEmpty("  ",
		costLabel(theme, currency, p.EstimatedCost),
		mutedIf(theme, p.Duration.String()),
		mutedIf(theme, safetyLabel(p.SafetyRating.String())),
	)
	if _, ok := p.Coordinate(); !ok {
		meta = joinNonEmpty("  ", meta, theme.Muted.Render("(no location)"))
	}
	if p.IsLodging() {
		meta = joinNonEmpty("  ", meta, theme.ShortcutKey.Render(BookHint))
	}

	var sb strings.Builder
	sb.WriteString(line + "\n")
	if meta != "" {
		sb.WriteString(cont + meta + "\n")
	}
	if p.Description != "" {
		desc := wrapText(p.Description, width-len(cont))
		for _, l := range strings.Split(desc, "\n") {
			sb.WriteString(cont + theme.Muted.Render(l) + "\n")
		}
	}
	return sb.String()
}

func costLabel(theme *styles.Theme, currency string, amount trip.Amount) string {
	if amount <= 0 {
		return ""
	}
	return theme.Cost.Render(util.FormatMoney(currency, float64(amount)))
}

func mutedIf(theme *styles.Theme, s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return theme.Muted.Render(s)
}

func safetyLabel(rating string) string {
	if rating == "" {
		return ""
	}
	return "safety " + rating
}

// =============================================================================
// COST STRIP
// =============================================================================

// CostStrip renders the trip cost breakdown on one line, wrapping to two on
// narrow terminals.
func CostStrip(theme *styles.Theme, it *trip.Itinerary, width int) string {
	if it == nil {
		return ""
	}
	cur := it.Currency()
	cs := it.CostSummary
	stat := func(label string, v trip.Amount) string {
		return theme.StatLabel.Render(label+" ") + theme.StatValue.Render(util.FormatMoney(cur, float64(v)))
	}
	parts := []string{
		stat("Food", cs.Food),
		stat("Stay", cs.Stay),
		stat("Activities", cs.Activities),
		stat("Transport", cs.Transport),
	}
	total := theme.StatLabel.Render("Total ") + theme.Cost.Bold(true).Render(util.FormatMoney(cur, float64(cs.Total)))
	if it.Budget > 0 {
		budget := util.FormatMoney(cur, float64(it.Budget))
		if cs.Total > it.Budget {
			total += " " + styles.RenderWarning("over "+budget+" budget")
		} else {
			total += theme.Muted.Render(" of " + budget)
		}
	}

	line := strings.Join(parts, "  ")
	if width > 0 && lipgloss.Width(line)+lipgloss.Width(total)+2 > width {
		return line + "\n" + total
	}
	return line + "  " + total
}
