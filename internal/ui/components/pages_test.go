// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// SAFETY
// =============================================================================

func assessment() *trip.SafetyAssessment {
	score := trip.Amount(35)
	return &trip.SafetyAssessment{
		Level:           "Moderate",
		Score:           &score,
		Description:     "Stay aware of your surroundings.",
		Insight:         "Pickpockets target metro line 1.",
		EmergencyNumber: "112",
		Alerts: []trip.Alert{
			{Kind: trip.AlertCritical, Title: "Protest near Bastille", Time: "2h ago"},
			{Kind: trip.AlertTransit, Title: "RER B delays", Distance: "1.2 km"},
			{Kind: trip.AlertInfo, Title: "Museum night", Description: "Free entry after 6pm."},
			{Kind: "weather", Title: "Heavy rain"},
		},
	}
}

func TestSafetyCards(t *testing.T) {
	for _, width := range []int{70, 140} {
		th := testTheme(width)
		out := SafetyCards(th, assessment(), "Paris, France", width)
		for _, want := range []string{"MODERATE", "35", "112", "Paris, France", "4", "(1 critical)", "Pickpockets target metro line 1."} {
			if !strings.Contains(out, want) {
				t.Errorf("width %d: safety cards missing %q:\n%s", width, want, out)
			}
		}
	}
	if SafetyCards(testTheme(80), nil, "x", 80) != "" {
		t.Error("nil assessment renders nothing")
	}
}

func TestSafetyCards_WideIsSideBySide(t *testing.T) {
	th := testTheme(150)
	wide := SafetyCards(th, assessment(), "Paris", 150)
	th.SetSize(70, 40)
	narrow := SafetyCards(th, assessment(), "Paris", 70)
	if lipgloss.Height(wide) >= lipgloss.Height(narrow) {
		t.Errorf("wide layout (%d rows) should be shorter than stacked (%d rows)",
			lipgloss.Height(wide), lipgloss.Height(narrow))
	}
}

func TestSafetyCards_DefaultEmergency(t *testing.T) {
	a := assessment()
	a.EmergencyNumber = ""
	if !strings.Contains(SafetyCards(testTheme(80), a, "", 80), trip.DefaultEmergencyNumber) {
		t.Error("missing default emergency number")
	}
}

func TestAlertList(t *testing.T) {
	th := testTheme(100)
	out := AlertList(th, assessment().Alerts, 100)
	for _, want := range []string{
		"[Critical] Protest near Bastille", "2h ago",
		"[Transit] RER B delays", "1.2 km",
		"[Informational] Museum night", "Free entry after 6pm.",
		"[Alert] Heavy rain",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("alerts missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(AlertList(th, nil, 100), "No active alerts") {
		t.Error("empty alert list")
	}
}

// =============================================================================
// TRIPS
// =============================================================================

func TestTripCard(t *testing.T) {
	th := testTheme(100)
	tr := trip.Trip{
		ID: "t1", Destination: "Kyoto", StartDate: "2025-04-01", EndDate: "2025-04-03",
		Days: 3, Budget: 100000, Interests: []string{"Culture", "Foodie"}, Pace: trip.PaceBalanced, Status: "CREATED",
	}
	out := TripCard(th, tr, true, 80)
	for _, want := range []string{"Kyoto", "created", "2025-04-01 → 2025-04-03", "3 days", "₹100,000", "Balanced", "Culture, Foodie"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Errorf("card width = %d, want 80", w)
	}
}

func TestTripList(t *testing.T) {
	th := testTheme(100)
	if got := TripList(th, nil, 0, 80, "No trips yet"); !strings.Contains(got, "No trips yet") {
		t.Errorf("got %q", got)
	}
	out := TripList(th, []trip.Trip{{ID: "a", Destination: "Goa", Days: 1}, {ID: "b", Destination: "Paris"}}, 1, 80, "")
	if !strings.Contains(out, "Goa") || !strings.Contains(out, "1 day") || !strings.Contains(out, "Paris") {
		t.Errorf("unexpected list:\n%s", out)
	}
}

// =============================================================================
// CHAT
// =============================================================================

func TestMarkdown_Disabled(t *testing.T) {
	md := NewMarkdown("", false)
	if got := md.Render("**bold** text", 40); got != "**bold** text" {
		t.Errorf("disabled renderer should only wrap, got %q", got)
	}
	var nilMD *Markdown
	if got := nilMD.Render("plain", 40); got != "plain" {
		t.Errorf("nil renderer: %q", got)
	}
}

func TestMarkdown_Renders(t *testing.T) {
	md := NewMarkdown("notty", true)
	out := md.Render("# Kyoto\n\n- Fushimi Inari\n- Gion", 60)
	if !strings.Contains(out, "Fushimi Inari") || !strings.Contains(out, "Gion") {
		t.Errorf("list items missing:\n%s", out)
	}
	// cached per width
	md.Render("x", 60)
	if len(md.renderers) != 1 {
		t.Errorf("renderers cached = %d", len(md.renderers))
	}
}

func TestChatBubble(t *testing.T) {
	th := testTheme(100)
	md := NewMarkdown("", false)

	user := ChatBubble(th, ChatMessage{Role: RoleUser, Text: "Best ramen?"}, md, 100)
	if !strings.Contains(user, "You") || !strings.Contains(user, "Best ramen?") {
		t.Errorf("user bubble:\n%s", user)
	}
	if w := lipgloss.Width(user); w != 100 {
		t.Errorf("user bubble should be right-aligned across the width, got %d", w)
	}

	bot := ChatBubble(th, ChatMessage{Role: RoleAssistant, Text: "Try Ippudo."}, md, 100)
	if !strings.Contains(bot, "Journey360 AI") || !strings.Contains(bot, "Try Ippudo.") {
		t.Errorf("assistant bubble:\n%s", bot)
	}

	failed := ChatBubble(th, ChatMessage{Role: RoleAssistant, Text: "I'm having trouble", Failed: true}, md, 100)
	if !strings.Contains(failed, styles.StatusIndicators.Warning) {
		t.Errorf("failed reply should carry a warning indicator:\n%s", failed)
	}
}

func TestTranscript(t *testing.T) {
	th := testTheme(100)
	out := Transcript(th, []ChatMessage{
		{Role: RoleAssistant, Text: "Hello!"},
		{Role: RoleUser, Text: "Hi"},
	}, nil, 100)
	if strings.Index(out, "Hello!") > strings.Index(out, "You") {
		t.Errorf("transcript out of order:\n%s", out)
	}
}
