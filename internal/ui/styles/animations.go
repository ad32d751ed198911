// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNERS
// =============================================================================

// SpinnerConfig holds the frames and speed of a loading animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the time each frame is shown.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// GlobeSpinner is shown while trips and itineraries load.
var GlobeSpinner = SpinnerConfig{
	Frames: []string{"(|  )", "( | )", "(  |)", "( | )"},
	FPS:    6,
}

// DotsSpinner is shown while the assistant is typing.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// =============================================================================
// BARS
// =============================================================================

var (
	BarFull  = "#"
	BarEmpty = "-"
)

// RenderProgressBar draws a bar width cells wide, percent (0-100) filled.
// Used for the budget slider and the risk score.
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	full := int(float64(width)*percent/100 + 0.5)

	var sb strings.Builder
	sb.Grow(width)
	sb.WriteString(strings.Repeat(BarFull, full))
	sb.WriteString(strings.Repeat(BarEmpty, width-full))
	return sb.String()
}

// =============================================================================
// TIMELINE CONNECTORS
// =============================================================================

// TreeChars are the ASCII glyphs joining timeline entries.
var TreeChars = struct {
	Pipe   string
	Tee    string
	Corner string
	Dash   string
}{
	Pipe:   "|",
	Tee:    "+",
	Corner: "`",
	Dash:   "-",
}

// RenderTreeLine returns the prefix for a timeline entry.
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}
