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
// SAFETY CARDS
// =============================================================================

// SafetyCards renders the risk, emergency and alert-count cards for a
// location. Wide terminals place them side by side.
func SafetyCards(theme *styles.Theme, a *trip.SafetyAssessment, location string, width int) string {
	if a == nil {
		return ""
	}
	wide := theme.GetLayoutMode() == styles.LayoutWide
	cardWidth := width
	if wide {
		cardWidth = width / 3
	}
	inner := contentWidth(cardWidth, theme.SafetyCard.GetHorizontalFrameSize())

	// Risk
	var risk strings.Builder
	risk.WriteString(theme.Label.Render("Risk level") + "\n")
	risk.WriteString(theme.RiskStyle(a.Level).Render(strings.ToUpper(util.FirstNonEmpty(a.Level, "Unknown"))) + "\n")
	if a.Score != nil {
		score := float64(*a.Score)
		risk.WriteString(styles.RenderProgressBar(min(inner-6, 20), score) + fmt.Sprintf(" %.0f", score) + "\n")
	}
	if a.Description != "" {
		risk.WriteString(wrapText(a.Description, inner))
	}

	// Emergency
	emergency := theme.Label.Render("Emergency") + "\n" +
		theme.Emergency.Render(a.Emergency()) + "\n" +
		theme.Muted.Render(truncate("Local emergency number for "+util.FirstNonEmpty(location, "this area"), inner))

	// Alerts
	total, critical := a.CountAlerts()
	alerts := theme.Label.Render("Active alerts") + "\n" +
		theme.StatValue.Render(fmt.Sprintf("%d", total))
	if critical > 0 {
		alerts += " " + theme.AlertStyle(string(trip.AlertCritical)).Render(fmt.Sprintf("(%d critical)", critical))
	}

	box := func(s string) string {
		return theme.SafetyCard.Width(inner + theme.SafetyCard.GetHorizontalPadding()).Render(s)
	}
	cards := []string{box(risk.String()), box(emergency), box(alerts)}

	var out string
	if wide {
		out = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		out = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	if insight := strings.TrimSpace(a.Insight); insight != "" {
		out += "\n" + theme.Label.Render("AI insight") + "\n" + wrapText(insight, contentWidth(width, 2))
	}
	return out
}

// =============================================================================
// ALERT LIST
// =============================================================================

// AlertList renders each alert with its category label and colour.
func AlertList(theme *styles.Theme, alerts []trip.Alert, width int) string {
	if len(alerts) == 0 {
		return theme.Muted.Render("No active alerts.")
	}
	inner := contentWidth(width, 4)

	var sb strings.Builder
	for i, al := range alerts {
		label := theme.AlertStyle(string(al.Kind)).Render("[" + al.Kind.Label() + "]")
		sb.WriteString(label + " " + theme.CardTitle.Render(truncate(al.Title, inner-lipgloss.Width(label)-1)) + "\n")
		if meta := joinNonEmpty("  ", al.Time, al.Distance); meta != "" {
			sb.WriteString("  " + theme.Muted.Render(meta) + "\n")
		}
		if al.Description != "" {
			sb.WriteString(indentText(wrapText(al.Description, inner-2), 2) + "\n")
		}
		if i < len(alerts)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
