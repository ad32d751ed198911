// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// BRAND COLORS
// =============================================================================

// Blue - Brand color, active tabs, primary buttons
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// BlueDeep - Darker blue for selected backgrounds
var BlueDeep = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#1E3A8A"}

// Teal - Map panel, coordinates
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// Emerald - Success, low risk, costs within budget
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Indigo - Lodging badges and the AI assistant
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#A5B4FC"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts, high risk
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Background for blocking alerts
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#881337"}

// Amber - Warnings, moderate risk, transit alerts
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Sky - Informational alerts
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// SurfaceDim - Headers and footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#020617"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}

// TextInverse - Text on coloured backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// =============================================================================
// CHAT BUBBLE COLORS
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#1D4ED8"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#EFF6FF"}

var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#C7D2FE", Dark: "#6366F1"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#334155", Dark: "#E2E8F0"}

// =============================================================================
// CATEGORY MAPPINGS
// =============================================================================

// AlertColor maps an alert category to its colour. Unknown categories are
// neutral.
func AlertColor(kind string) lipgloss.AdaptiveColor {
	switch strings.ToLower(kind) {
	case "critical":
		return Rose
	case "info":
		return Sky
	case "transit":
		return Amber
	}
	return TextSecondary
}

// RiskColor maps a risk level label to a colour.
func RiskColor(level string) lipgloss.AdaptiveColor {
	l := strings.ToLower(level)
	switch {
	case strings.Contains(l, "high"), strings.Contains(l, "severe"), strings.Contains(l, "critical"), strings.Contains(l, "danger"):
		return Rose
	case strings.Contains(l, "moderate"), strings.Contains(l, "medium"), strings.Contains(l, "caution"):
		return Amber
	case strings.Contains(l, "low"), strings.Contains(l, "safe"):
		return Emerald
	}
	return Sky
}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colour
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators gives every status a shape so colour is never the only cue.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

// RenderSuccess renders a success line with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info line with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Sky).Bold(true).Render(StatusIndicators.Info + " " + message)
}

// RenderLink renders text as an underlined link.
// ACCESSIBILITY: Underline is a cue beyond colour.
func RenderLink(text string) string {
	return lipgloss.NewStyle().Foreground(Blue).Underline(true).Render(text)
}
