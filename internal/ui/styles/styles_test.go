// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// COLOUR MAPPINGS
// =============================================================================

func TestAlertColor(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"critical", Rose.Dark},
		{"CRITICAL", Rose.Dark},
		{"transit", Amber.Dark},
		{"info", Sky.Dark},
		{"weather", TextSecondary.Dark},
		{"", TextSecondary.Dark},
	}
	for _, tt := range tests {
		if got := AlertColor(tt.kind).Dark; got != tt.want {
			t.Errorf("AlertColor(%q) = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestRiskColor(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"High", Rose.Dark},
		{"Severe", Rose.Dark},
		{"Moderate", Amber.Dark},
		{"medium risk", Amber.Dark},
		{"Low", Emerald.Dark},
		{"Safe", Emerald.Dark},
		{"Unknown", Sky.Dark},
	}
	for _, tt := range tests {
		if got := RiskColor(tt.level).Dark; got != tt.want {
			t.Errorf("RiskColor(%q) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestRenderHelpersCarryIndicators(t *testing.T) {
	cases := map[string]string{
		RenderSuccess("saved"):   StatusIndicators.Success,
		RenderError("failed"):    StatusIndicators.Error,
		RenderWarning("careful"): StatusIndicators.Warning,
		RenderInfo("note"):       StatusIndicators.Info,
	}
	for out, indicator := range cases {
		if !strings.Contains(out, indicator) {
			t.Errorf("%q missing indicator %q", out, indicator)
		}
	}
	if !strings.Contains(RenderLink("book"), "book") {
		t.Error("RenderLink dropped its text")
	}
}

// =============================================================================
// THEME
// =============================================================================

func TestNewTheme_Modes(t *testing.T) {
	if th := NewTheme("dark"); !th.IsDark {
		t.Error("dark mode should be dark")
	}
	if th := NewTheme("LIGHT"); th.IsDark {
		t.Error("light mode should not be dark")
	}
	// auto depends on the terminal; it just has to produce usable styles.
	th := NewTheme("auto")
	if th.PageTitle.Render("x") == "" {
		t.Error("auto theme has no styles")
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	th := NewTheme("dark")
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		if got := th.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
		if th.Compact != (tt.want == LayoutNarrow) {
			t.Errorf("width %d: compact = %v", tt.width, th.Compact)
		}
	}
}

func TestTheme_SetCompact(t *testing.T) {
	th := NewTheme("dark")
	th.SetCompact(true)
	if !th.Compact {
		t.Fatal("compact not set")
	}
	if h, _ := th.Card.GetFrameSize(); h != 2 {
		t.Errorf("compact card horizontal frame = %d, want border only", h)
	}
}

func TestTheme_SetModeInPlace(t *testing.T) {
	th := NewTheme("dark")
	th.SetCompact(true)
	th.SetMode("light")
	if th.IsDark {
		t.Error("SetMode(light) left the theme dark")
	}
	if !th.Compact {
		t.Error("SetMode should keep compact styles")
	}
}

// =============================================================================
// ANIMATIONS
// =============================================================================

func TestSpinnerDuration(t *testing.T) {
	if got := DotsSpinner.Duration(); got != time.Second/6 {
		t.Errorf("got %v", got)
	}
	if got := (SpinnerConfig{}).Duration(); got != time.Second {
		t.Errorf("zero FPS: got %v", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		width   int
		percent float64
		want    string
	}{
		{10, 0, "----------"},
		{10, 50, "#####-----"},
		{10, 100, "##########"},
		{10, 150, "##########"},
		{4, -5, "----"},
		{0, 50, ""},
	}
	for _, tt := range tests {
		if got := RenderProgressBar(tt.width, tt.percent); got != tt.want {
			t.Errorf("RenderProgressBar(%d, %v) = %q, want %q", tt.width, tt.percent, got, tt.want)
		}
	}
}

func TestRenderTreeLine(t *testing.T) {
	if RenderTreeLine(false) != "+- " || RenderTreeLine(true) != "`- " {
		t.Error("unexpected connectors")
	}
}
