// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// MY TRIPS
// =============================================================================

var tripsKeys = struct {
	Up, Down, Open, Filter, Clear, Refresh key.Binding
}{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "select")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "open")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "done")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
}

type tripsLoadedMsg struct {
	pageMsg
	trips []trip.Trip
	err   error
}

type tripsPage struct {
	base
	all      []trip.Trip
	filter   textinput.Model
	editing  bool
	selected int
	loading  bool
	err      string
	spinner  components.Spinner
	viewport viewport.Model
}

func newTripsPage(sh *shell) *tripsPage {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Search destinations"
	filter.CharLimit = 80
	return &tripsPage{
		base:     sh.newBase(),
		filter:   filter,
		spinner:  components.NewSpinner(sh.theme, styles.GlobeSpinner),
		viewport: viewport.New(80, 20),
	}
}

func (p *tripsPage) init() tea.Cmd {
	return p.load()
}

func (p *tripsPage) capturing() bool { return p.editing }

func (p *tripsPage) shortcuts() []components.Shortcut {
	if p.editing {
		return []components.Shortcut{shortcut(tripsKeys.Clear)}
	}
	return []components.Shortcut{
		shortcut(tripsKeys.Down), shortcut(tripsKeys.Open),
		shortcut(tripsKeys.Filter), shortcut(tripsKeys.Refresh),
	}
}

func (p *tripsPage) load() tea.Cmd {
	if p.deps.Backend == nil {
		return nil
	}
	p.loading = true
	p.err = ""
	backend, tag := p.deps.Backend, p.tag()
	ctx, done := p.cancels.begin(context.Background())
	return tea.Batch(p.spinner.Start("Loading your trips"), func() tea.Msg {
		defer done()
		trips, err := backend.ListTrips(ctx)
		return tripsLoadedMsg{pageMsg: tag, trips: trips, err: err}
	})
}

// visible returns the trips matching the search box.
func (p *tripsPage) visible() []trip.Trip {
	return trip.FilterTrips(p.all, p.filter.Value())
}

func (p *tripsPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.viewport.Width = msg.Width
		p.viewport.Height = max(msg.Height-4, 3)
		return nil

	case tripsLoadedMsg:
		p.loading = false
		p.spinner.Stop()
		if msg.err != nil {
			p.err = userMessage(msg.err)
			p.logger.Warn("list trips failed", "error", msg.err)
			return nil
		}
		p.all = msg.trips
		p.selected = 0
		return nil

	case tea.KeyMsg:
		if p.editing {
			if key.Matches(msg, tripsKeys.Clear) || key.Matches(msg, tripsKeys.Open) {
				p.editing = false
				p.filter.Blur()
				return nil
			}
			var cmd tea.Cmd
			p.filter, cmd = p.filter.Update(msg)
			p.selected = 0
			return cmd
		}
		return p.handleKey(msg)
	}

	if p.loading {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (p *tripsPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	trips := p.visible()
	switch {
	case key.Matches(msg, tripsKeys.Up):
		if p.selected > 0 {
			p.selected--
		}
	case key.Matches(msg, tripsKeys.Down):
		if p.selected < len(trips)-1 {
			p.selected++
		}
	case key.Matches(msg, tripsKeys.Open):
		if p.selected < len(trips) {
			return Navigate(RouteItinerary, trips[p.selected].ID)
		}
	case key.Matches(msg, tripsKeys.Filter):
		p.editing = true
		return p.filter.Focus()
	case key.Matches(msg, tripsKeys.Clear):
		p.filter.SetValue("")
		p.selected = 0
	case key.Matches(msg, tripsKeys.Refresh):
		if !p.loading {
			return p.load()
		}
	default:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (p *tripsPage) view(width, height int) string {
	th := p.theme
	title := th.PageTitle.Render("My Trips")
	if p.filter.Value() != "" || p.editing {
		title += "\n" + p.filter.View()
	}

	var body string
	switch {
	case p.loading:
		body = p.spinner.View()
	case p.err != "":
		body = components.InlineError(th, p.err)
	default:
		trips := p.visible()
		empty := "No trips yet. Press 1 to plan one."
		if len(p.all) > 0 {
			empty = fmt.Sprintf("No trips match %q.", p.filter.Value())
		}
		body = components.TripList(th, trips, p.selected, min(width-2, 80), empty)
	}

	p.viewport.Width = width
	p.viewport.Height = max(height-lipgloss.Height(title)-1, 3)
	p.viewport.SetContent(body)
	return title + "\n" + p.viewport.View()
}
