// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is the loading indicator shown while a request is in flight.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
	theme     *styles.Theme
}

// NewSpinner creates a spinner animating cfg's frames.
func NewSpinner(theme *styles.Theme, cfg styles.SpinnerConfig) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: cfg.Frames, FPS: cfg.Duration()}
	if theme != nil {
		s.Style = theme.Spinner
	}
	return Spinner{spinner: s, message: "Loading", showTimer: true, theme: theme}
}

// SetMessage sets the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Message returns the current caption.
func (s *Spinner) Message() string {
	return s.message
}

// SetShowTimer toggles the elapsed seconds suffix.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start(msg string) tea.Cmd {
	s.isActive = true
	s.message = msg
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the animation. Ticks are ignored while stopped, which
// ends the tick loop.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner, or nothing when stopped.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	out := s.spinner.View() + " " + s.message
	if s.showTimer && !s.startTime.IsZero() {
		if secs := int(time.Since(s.startTime).Seconds()); secs > 0 {
			out += fmt.Sprintf(" (%ds)", secs)
		}
	}
	if s.theme != nil {
		return s.theme.Muted.Render(out)
	}
	return out
}
