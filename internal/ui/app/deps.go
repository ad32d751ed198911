// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/assistant"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the subset of *api.Client the pages call.
type Backend interface {
	CreateTrip(ctx context.Context, draft trip.NewTrip) (*trip.Trip, error)
	ListTrips(ctx context.Context) ([]trip.Trip, error)
	GenerateItinerary(ctx context.Context, tripID string) (*trip.Itinerary, error)
	GetItinerary(ctx context.Context, tripID string) (*trip.Itinerary, error)
	RegenerateItinerary(ctx context.Context, tripID, instruction string, constraints map[string]any) (*trip.RegenerateResult, error)
	NearbyPlaces(ctx context.Context, tripID string, pos geo.Point, radiusMeters float64) ([]trip.NearbyPlace, error)
	TripSummary(ctx context.Context, tripID string) (string, error)
	AssessSafety(ctx context.Context, location string) (*trip.SafetyAssessment, error)
}

// Assistant answers chat questions.
type Assistant interface {
	Ask(ctx context.Context, question, tripID string) assistant.Reply
}

var _ Backend = (*api.Client)(nil)
var _ Assistant = (*assistant.Assistant)(nil)

// Deps wires the program to its services.
type Deps struct {
	Session   *session.Session
	Backend   Backend
	Assistant Assistant
	UI        config.UIConfig
	Logger    *slog.Logger
	// Now is the clock used for form defaults; nil means time.Now.
	Now func() time.Time
}

// =============================================================================
// SHELL - state shared by the root model and its pages
// =============================================================================

type shell struct {
	deps   Deps
	theme  *styles.Theme
	status *components.StatusBar
	md     *components.Markdown
	keys   KeyMap
	logger *slog.Logger

	// alert is the blocking overlay; nil when none is shown.
	alert *alert

	nextPageID uint64
}

type alert struct {
	title   string
	message string
}

func newShell(deps Deps) *shell {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	theme := styles.NewTheme(deps.UI.Theme)
	if deps.UI.CompactMode {
		theme.SetCompact(true)
	}
	mdStyle := "light"
	if theme.IsDark {
		mdStyle = "dark"
	}
	return &shell{
		deps:   deps,
		theme:  theme,
		status: components.NewStatusBar(theme),
		md:     components.NewMarkdown(mdStyle, deps.UI.Markdown),
		keys:   DefaultKeyMap(),
		logger: logger,
	}
}

// ConfigChangedMsg carries UI settings reloaded from the config file.
type ConfigChangedMsg struct {
	UI config.UIConfig
}

// applyUI swaps in reloaded UI settings. The theme changes in place; the
// safety location is read the next time the safety page opens.
func (s *shell) applyUI(ui config.UIConfig) {
	s.deps.UI = ui
	s.theme.SetMode(ui.Theme)
	s.theme.SetCompact(ui.CompactMode || s.theme.GetLayoutMode() == styles.LayoutNarrow)
	mdStyle := "light"
	if s.theme.IsDark {
		mdStyle = "dark"
	}
	s.md = components.NewMarkdown(mdStyle, ui.Markdown)
	s.logger.Info("ui settings reloaded", "theme", ui.Theme, "markdown", ui.Markdown)
}

// showAlert raises the blocking overlay.
func (s *shell) showAlert(title, message string) {
	s.alert = &alert{title: title, message: message}
}

// signedIn reports whether a user is signed in.
func (s *shell) signedIn() bool {
	return s.deps.Session != nil && s.deps.Session.SignedIn()
}

// userMessage turns an error into the text shown to the user. Provider
// errors carry their own friendly wording; everything else already has a
// user-facing message.
func userMessage(err error) string {
	var pe *session.ProviderError
	if errors.As(err, &pe) {
		return pe.Friendly()
	}
	if errors.Is(err, session.ErrNoUser) {
		return api.ErrUnauthenticated.Error()
	}
	return err.Error()
}
