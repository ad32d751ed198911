// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Compact drops borders and padding on narrow terminals.
	Compact bool

	// ==========================================================================
	// SHELL
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderUser  lipgloss.Style
	NavTab      lipgloss.Style
	NavTabOn    lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDsc lipgloss.Style
	PageTitle   lipgloss.Style
	Subtitle    lipgloss.Style
	Muted       lipgloss.Style
	Spinner     lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	Label       lipgloss.Style
	Field       lipgloss.Style
	FieldFocus  lipgloss.Style
	FieldError  lipgloss.Style
	Button      lipgloss.Style
	ButtonFocus lipgloss.Style
	Chip        lipgloss.Style
	ChipOn      lipgloss.Style

	// ==========================================================================
	// TRIP AND ITINERARY
	// ==========================================================================

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	DayTab       lipgloss.Style
	DayTabOn     lipgloss.Style
	TimeSlot     lipgloss.Style
	PlaceName    lipgloss.Style
	PlaceOn      lipgloss.Style
	HotelBadge   lipgloss.Style
	Cost         lipgloss.Style
	StatLabel    lipgloss.Style
	StatValue    lipgloss.Style
	MapPanel     lipgloss.Style
	MapMarker    lipgloss.Style
	Attribution  lipgloss.Style

	// ==========================================================================
	// SAFETY
	// ==========================================================================

	SafetyCard lipgloss.Style
	Emergency  lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Sender          lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	AlertBox   lipgloss.Style
	AlertTitle lipgloss.Style
	ErrorText  lipgloss.Style
	NotFound   lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or "auto"; auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetMode(mode)
	return t
}

// SetMode switches between dark and light in place, so every component
// holding the theme picks up the change.
func (t *Theme) SetMode(mode string) {
	var dark bool
	switch strings.ToLower(mode) {
	case "light":
		dark = false
	case "dark":
		dark = true
	default:
		dark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(dark)
	t.IsDark = dark
	t.initStyles()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	pad := 1
	if t.Compact {
		pad = 0
	}
	border := lipgloss.RoundedBorder()

	t.App = lipgloss.NewStyle()
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(Blue)
	t.HeaderUser = lipgloss.NewStyle().Foreground(TextSecondary)
	t.NavTab = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.NavTabOn = lipgloss.NewStyle().Foreground(TextInverse).Background(Blue).Bold(true).Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().Background(SurfaceDim).Foreground(TextSecondary).Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.ShortcutDsc = lipgloss.NewStyle().Foreground(TextMuted)
	t.PageTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).MarginBottom(pad)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Blue)

	t.Label = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Field = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(Overlay).Padding(0, 1)
	t.FieldFocus = t.Field.BorderForeground(Blue)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose)
	t.Button = lipgloss.NewStyle().Foreground(TextPrimary).Background(Overlay).Padding(0, 2)
	t.ButtonFocus = lipgloss.NewStyle().Foreground(TextInverse).Background(Blue).Bold(true).Padding(0, 2)
	t.Chip = lipgloss.NewStyle().Foreground(TextSecondary).BorderStyle(border).BorderForeground(Overlay).Padding(0, 1)
	t.ChipOn = t.Chip.Foreground(Blue).BorderForeground(Blue).Bold(true)

	t.Card = lipgloss.NewStyle().BorderStyle(border).BorderForeground(Overlay).Padding(0, pad)
	t.CardSelected = t.Card.BorderForeground(Blue)
	t.CardTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.DayTab = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.DayTabOn = lipgloss.NewStyle().Foreground(TextInverse).Background(Blue).Bold(true).Padding(0, 1)
	t.TimeSlot = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.PlaceName = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.PlaceOn = lipgloss.NewStyle().Foreground(TextInverse).Background(BlueDeep).Bold(true)
	t.HotelBadge = lipgloss.NewStyle().Foreground(TextInverse).Background(Indigo).Bold(true).Padding(0, 1)
	t.Cost = lipgloss.NewStyle().Foreground(Emerald)
	t.StatLabel = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatValue = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.MapPanel = lipgloss.NewStyle().BorderStyle(border).BorderForeground(Teal).Padding(0, pad)
	t.MapMarker = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Attribution = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.SafetyCard = lipgloss.NewStyle().BorderStyle(border).BorderForeground(Overlay).Padding(0, pad)
	t.Emergency = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1).
		MarginLeft(4)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(border).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)
	t.Sender = lipgloss.NewStyle().Foreground(TextMuted).Bold(true)

	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 2)
	t.AlertTitle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)
	t.NotFound = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true).Padding(2, 4)
}

// SetSize updates the theme dimensions and switches to compact styles on
// narrow terminals.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
	compact := t.GetLayoutMode() == LayoutNarrow
	if compact != t.Compact {
		t.Compact = compact
		t.initStyles()
	}
}

// SetCompact forces compact styles regardless of width.
func (t *Theme) SetCompact(on bool) {
	t.Compact = on
	t.initStyles()
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns; map panel beside the timeline
)

// AlertStyle returns the label style for an alert category.
func (t *Theme) AlertStyle(kind string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(AlertColor(kind)).Bold(true)
}

// RiskStyle returns the badge style for a risk level.
func (t *Theme) RiskStyle(level string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(TextInverse).Background(RiskColor(level)).Bold(true).Padding(0, 1)
}
