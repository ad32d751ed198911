// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// DASHBOARD - AI trip creator and recent trips
// =============================================================================

// Creator form fields in focus order.
const (
	fieldDestination = iota
	fieldStart
	fieldEnd
	fieldBudget
	fieldInterests
	fieldCustom
	fieldPace
	fieldCreate
	fieldCount
)

const (
	alertCreateTitle = "Could not create trip"
	errNoDestination = "Please enter a destination."
	errNotSignedIn   = "Please log in first."
	recentTripCount  = 3
)

var dashboardKeys = struct {
	Next, Prev, Left, Right, BigLeft, BigRight, Toggle, Create, Leave key.Binding
}{
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("Tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up")),
	Left:     key.NewBinding(key.WithKeys("left")),
	Right:    key.NewBinding(key.WithKeys("right")),
	BigLeft:  key.NewBinding(key.WithKeys("shift+left", "pgdown")),
	BigRight: key.NewBinding(key.WithKeys("shift+right", "pgup")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "toggle")),
	Create:   key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("Enter", "create trip")),
	Leave:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "leave field")),
}

type recentTripsMsg struct {
	pageMsg
	trips []trip.Trip
	err   error
}

type tripCreatedMsg struct {
	pageMsg
	trip *trip.Trip
	err  error
}

type itineraryGeneratedMsg struct {
	pageMsg
	tripID string
	err    error
}

type dashboardPage struct {
	base
	destination textinput.Model
	start       textinput.Model
	end         textinput.Model
	custom      textinput.Model

	budget    int // slider position
	interests map[string]bool
	cursor    int // highlighted preset interest
	pace      int // index into trip.Paces
	focus     int

	busy    bool
	spinner components.Spinner
	recent  []trip.Trip
	loadErr string
}

func newDashboardPage(sh *shell) *dashboardPage {
	input := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	today := sh.deps.Now().Format(trip.DateLayout)
	p := &dashboardPage{
		base:        sh.newBase(),
		destination: input("Where to? e.g. Kyoto, Japan", 120),
		start:       input(today, 10),
		end:         input(today, 10),
		custom:      input("Other interests, comma separated", 120),
		budget:      trip.BudgetSliderDefault,
		interests:   make(map[string]bool),
		pace:        1,
		spinner:     components.NewSpinner(sh.theme, styles.GlobeSpinner),
	}
	p.destination.Focus()
	return p
}

func (p *dashboardPage) init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.loadRecent())
}

func (p *dashboardPage) capturing() bool {
	switch p.focus {
	case fieldDestination, fieldStart, fieldEnd, fieldCustom:
		return true
	}
	return false
}

func (p *dashboardPage) shortcuts() []components.Shortcut {
	sc := []components.Shortcut{shortcut(dashboardKeys.Next), shortcut(dashboardKeys.Create)}
	switch p.focus {
	case fieldInterests:
		sc = append(sc, shortcut(dashboardKeys.Toggle))
	case fieldBudget, fieldPace:
		sc = append(sc, components.Shortcut{Key: "<- ->", Desc: "adjust"})
	}
	if p.capturing() {
		sc = append(sc, shortcut(dashboardKeys.Leave))
	}
	return sc
}

func (p *dashboardPage) loadRecent() tea.Cmd {
	backend, tag := p.deps.Backend, p.tag()
	if backend == nil {
		return nil
	}
	ctx, done := p.cancels.begin(context.Background())
	return func() tea.Msg {
		defer done()
		trips, err := backend.ListTrips(ctx)
		return recentTripsMsg{pageMsg: tag, trips: trips, err: err}
	}
}

func (p *dashboardPage) inputs() []*textinput.Model {
	return []*textinput.Model{
		fieldDestination: &p.destination,
		fieldStart:       &p.start,
		fieldEnd:         &p.end,
		fieldCustom:      &p.custom,
	}
}

func (p *dashboardPage) setFocus(i int) tea.Cmd {
	p.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for idx, in := range p.inputs() {
		if in == nil {
			continue
		}
		if idx == p.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (p *dashboardPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case recentTripsMsg:
		if msg.err != nil {
			p.loadErr = userMessage(msg.err)
			return nil
		}
		p.loadErr = ""
		p.recent = msg.trips
		if len(p.recent) > recentTripCount {
			p.recent = p.recent[:recentTripCount]
		}
		return nil

	case tripCreatedMsg:
		return p.created(msg)

	case itineraryGeneratedMsg:
		p.busy = false
		p.spinner.Stop()
		if msg.err != nil {
			p.showAlert("Failed to generate itinerary", userMessage(msg.err))
			return nil
		}
		return Navigate(RouteItinerary, msg.tripID)

	case tea.KeyMsg:
		if p.busy {
			return nil
		}
		return p.handleKey(msg)
	}

	if p.busy {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (p *dashboardPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dashboardKeys.Next):
		return p.setFocus(p.focus + 1)
	case key.Matches(msg, dashboardKeys.Prev):
		return p.setFocus(p.focus - 1)
	case key.Matches(msg, dashboardKeys.Create):
		return p.submit()
	case key.Matches(msg, dashboardKeys.Leave):
		return p.setFocus(fieldCreate)
	}

	switch p.focus {
	case fieldBudget:
		switch {
		case key.Matches(msg, dashboardKeys.Left):
			p.budget = max(trip.BudgetSliderMin, p.budget-1)
		case key.Matches(msg, dashboardKeys.Right):
			p.budget = min(trip.BudgetSliderMax, p.budget+1)
		case key.Matches(msg, dashboardKeys.BigLeft):
			p.budget = max(trip.BudgetSliderMin, p.budget-10)
		case key.Matches(msg, dashboardKeys.BigRight):
			p.budget = min(trip.BudgetSliderMax, p.budget+10)
		}
		return nil
	case fieldInterests:
		n := len(trip.PresetInterests)
		switch {
		case key.Matches(msg, dashboardKeys.Left):
			p.cursor = (p.cursor + n - 1) % n
		case key.Matches(msg, dashboardKeys.Right):
			p.cursor = (p.cursor + 1) % n
		case key.Matches(msg, dashboardKeys.Toggle):
			id := trip.PresetInterests[p.cursor].ID
			p.interests[id] = !p.interests[id]
		}
		return nil
	case fieldPace:
		n := len(trip.Paces)
		switch {
		case key.Matches(msg, dashboardKeys.Left):
			p.pace = (p.pace + n - 1) % n
		case key.Matches(msg, dashboardKeys.Right):
			p.pace = (p.pace + 1) % n
		}
		return nil
	case fieldCreate:
		return nil
	}

	in := p.inputs()[p.focus]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// draft builds the normalized create request from the form.
func (p *dashboardPage) draft() trip.NewTrip {
	var interests []string
	for _, in := range trip.PresetInterests {
		if p.interests[in.ID] {
			interests = append(interests, in.ID)
		}
	}
	for _, c := range strings.Split(p.custom.Value(), ",") {
		if c = strings.TrimSpace(c); c != "" {
			interests = append(interests, c)
		}
	}
	return trip.NewTrip{
		Destination: p.destination.Value(),
		Budget:      trip.BudgetFromSlider(p.budget),
		Interests:   interests,
		Pace:        trip.Paces[p.pace],
		StartDate:   strings.TrimSpace(p.start.Value()),
		EndDate:     strings.TrimSpace(p.end.Value()),
	}.Normalize(p.deps.Now())
}

// submit starts create -> generate -> open. Each step waits for the
// previous one.
func (p *dashboardPage) submit() tea.Cmd {
	draft := p.draft()
	if draft.Destination == "" {
		p.showAlert(alertCreateTitle, errNoDestination)
		return nil
	}
	if !p.signedIn() || p.deps.Backend == nil {
		p.showAlert(alertCreateTitle, errNotSignedIn)
		return nil
	}
	if err := draft.Validate(); err != nil {
		p.showAlert(alertCreateTitle, err.Error())
		return nil
	}

	p.busy = true
	p.logger.Info("creating trip", "destination", draft.Destination, "budget", draft.Budget, "pace", draft.Pace)
	backend, tag := p.deps.Backend, p.tag()
	ctx, done := p.cancels.begin(context.Background())
	return tea.Batch(p.spinner.Start("Creating trip to "+draft.Destination), func() tea.Msg {
		defer done()
		t, err := backend.CreateTrip(ctx, draft)
		return tripCreatedMsg{pageMsg: tag, trip: t, err: err}
	})
}

func (p *dashboardPage) created(msg tripCreatedMsg) tea.Cmd {
	if msg.err != nil {
		p.busy = false
		p.spinner.Stop()
		p.showAlert("Failed to create trip", userMessage(msg.err))
		return nil
	}
	tripID := msg.trip.ID
	p.spinner.SetMessage("Generating itinerary for " + msg.trip.Destination)
	backend, tag := p.deps.Backend, p.tag()
	ctx, done := p.cancels.begin(context.Background())
	return func() tea.Msg {
		defer done()
		_, err := backend.GenerateItinerary(ctx, tripID)
		return itineraryGeneratedMsg{pageMsg: tag, tripID: tripID, err: err}
	}
}

// =============================================================================
// VIEW
// =============================================================================

func (p *dashboardPage) view(width, height int) string {
	th := p.theme
	label := func(field int, text string) string {
		if p.focus == field {
			return th.ShortcutKey.Render("> " + text)
		}
		return th.Label.Render("  " + text)
	}
	input := func(field int, in textinput.Model, w int) string {
		style := th.Field
		if p.focus == field {
			style = th.FieldFocus
		}
		return style.Width(w).Render(in.View())
	}

	var chips []string
	for i, in := range trip.PresetInterests {
		style := th.Chip
		if p.interests[in.ID] {
			style = th.ChipOn
		}
		text := in.Label
		if p.focus == fieldInterests && i == p.cursor {
			text = "[" + text + "]"
		}
		chips = append(chips, style.Render(text))
	}

	var paces []string
	for i, pc := range trip.Paces {
		if i == p.pace {
			paces = append(paces, th.ChipOn.Render(string(pc)))
		} else {
			paces = append(paces, th.Chip.Render(string(pc)))
		}
	}

	formWidth := min(width-4, 72)
	amount := util.FormatMoney(util.DefaultCurrency, float64(trip.BudgetFromSlider(p.budget)))
	button := th.Button.Render("Create trip")
	if p.focus == fieldCreate {
		button = th.ButtonFocus.Render("Create trip")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		th.PageTitle.Render("Plan a new trip"),
		label(fieldDestination, "Destination"),
		input(fieldDestination, p.destination, formWidth-4),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, label(fieldStart, "Start date"), input(fieldStart, p.start, 14)),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, label(fieldEnd, "End date"), input(fieldEnd, p.end, 14)),
		),
		label(fieldBudget, "Budget"),
		"  "+styles.RenderProgressBar(min(formWidth-20, 40), float64(p.budget))+" "+th.Cost.Render(amount),
		label(fieldInterests, "Interests"),
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
		label(fieldCustom, "Other interests"),
		input(fieldCustom, p.custom, formWidth-4),
		label(fieldPace, "Pace"),
		lipgloss.JoinHorizontal(lipgloss.Top, paces...),
		"",
		button,
	)
	if p.busy {
		form += "\n" + p.spinner.View()
	}

	recent := th.CardTitle.Render("Recent trips") + "\n"
	switch {
	case p.loadErr != "":
		recent += components.InlineError(th, p.loadErr)
	default:
		recent += components.TripList(th, p.recent, -1, min(width-4, 60), "No trips yet. Create your first one!")
	}

	if p.theme.GetLayoutMode() == styles.LayoutWide {
		return lipgloss.JoinHorizontal(lipgloss.Top, form, "    ", recent)
	}
	return form + "\n\n" + recent + fmt.Sprintf("\n%s", th.Muted.Render("Press 2 for all trips"))
}
