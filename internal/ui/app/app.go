// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
)

// =============================================================================
// ROUTES
// =============================================================================

// Route identifies a page.
type Route int

const (
	RouteEntry Route = iota
	RouteDashboard
	RouteTrips
	RouteItinerary
	RouteSafety
	RouteAssistant
)

// String returns the route's path-like name.
func (r Route) String() string {
	switch r {
	case RouteEntry:
		return "entry"
	case RouteDashboard:
		return "dashboard"
	case RouteTrips:
		return "my-trips"
	case RouteItinerary:
		return "itinerary"
	case RouteSafety:
		return "safety"
	case RouteAssistant:
		return "assistant"
	}
	return "unknown"
}

// Protected reports whether the route requires a signed-in user.
func (r Route) Protected() bool {
	return r != RouteEntry
}

// NavigateMsg switches pages.
type NavigateMsg struct {
	Route  Route
	TripID string
}

// Navigate returns a command that switches to route.
func Navigate(route Route, tripID string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route, TripID: tripID} }
}

// =============================================================================
// PAGES
// =============================================================================

// page is one screen. Pages are pointers and mutate in place.
type page interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view(width, height int) string
	shortcuts() []components.Shortcut
	// capturing reports whether a text field has focus, in which case
	// single-character global keys go to the page.
	capturing() bool
	// leave cancels in-flight requests.
	leave()
}

// pageMsg tags async results with the page instance that asked for them.
type pageMsg struct {
	owner uint64
}

func (p pageMsg) ownerID() uint64 { return p.owner }

type ownedMsg interface {
	ownerID() uint64
}

// base is embedded by every page.
type base struct {
	*shell
	id      uint64
	cancels *cancelManager
}

func (s *shell) newBase() base {
	s.nextPageID++
	return base{shell: s, id: s.nextPageID, cancels: newCancelManager()}
}

func (b *base) tag() pageMsg { return pageMsg{owner: b.id} }

func (b *base) leave() { b.cancels.cancelAll() }

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	*shell
	header *components.Header
	route  Route
	page   page
	watch  *session.Watch
	width  int
	height int
}

// New creates the program model. The first page is the dashboard when a
// user is already signed in, otherwise the entry page.
func New(deps Deps) Model {
	sh := newShell(deps)
	tabs := make([]components.NavTab, len(navTabs))
	for i, t := range navTabs {
		tabs[i] = t.tab
	}
	m := Model{
		shell:  sh,
		header: components.NewHeader(sh.theme, tabs),
		width:  80,
		height: 24,
	}
	if deps.Session != nil {
		m.watch = session.NewWatch(deps.Session)
	}
	start := RouteEntry
	if sh.signedIn() {
		start = RouteDashboard
	}
	m.switchTo(NavigateMsg{Route: start})
	return m
}

// Route returns the current page's route.
func (m Model) Route() Route {
	return m.route
}

// Close stops the session watch and cancels the current page.
func (m Model) Close() {
	if m.page != nil {
		m.page.leave()
	}
	if m.watch != nil {
		m.watch.Close()
	}
}

// Init starts the session watch and the first page.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watch != nil {
		cmds = append(cmds, m.watch.Next())
	}
	cmds = append(cmds, m.page.init())
	return tea.Batch(cmds...)
}

// Update routes messages to the shell or the current page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		return m, m.page.update(msg)

	case session.AuthChangedMsg:
		var cmds []tea.Cmd
		if m.watch != nil {
			cmds = append(cmds, m.watch.Next())
		}
		if msg.SignedIn {
			m.header.SetUser(msg.User.Email)
		} else {
			m.header.SetUser("")
			if m.route.Protected() {
				m.logger.Info("signed out, leaving protected page", "route", m.route.String())
				cmds = append(cmds, m.switchTo(NavigateMsg{Route: RouteEntry}))
			}
		}
		return m, tea.Batch(cmds...)

	case NavigateMsg:
		return m, m.switchTo(msg)

	case ConfigChangedMsg:
		m.applyUI(msg.UI)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ownedMsg:
		if msg.ownerID() != m.pageID() {
			m.logger.Debug("dropping late result", "type", fmt.Sprintf("%T", msg))
			return m, nil
		}
	}
	return m, m.page.update(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return m, tea.Quit
	}
	if m.alert != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = nil
		}
		return m, nil
	}
	if m.signedIn() {
		if key.Matches(msg, m.keys.SignOut) {
			m.deps.Session.SignOut()
			return m, m.switchTo(NavigateMsg{Route: RouteEntry})
		}
		if key.Matches(msg, m.keys.NextTab) {
			return m, m.switchTo(NavigateMsg{Route: m.nextTab()})
		}
	}
	if !m.page.capturing() {
		if key.Matches(msg, m.keys.Quit) {
			m.Close()
			return m, tea.Quit
		}
		if m.signedIn() {
			for _, b := range []struct {
				binding key.Binding
				route   Route
			}{
				{m.keys.Dashboard, RouteDashboard},
				{m.keys.Trips, RouteTrips},
				{m.keys.Safety, RouteSafety},
				{m.keys.Assistant, RouteAssistant},
			} {
				if key.Matches(msg, b.binding) {
					return m, m.switchTo(NavigateMsg{Route: b.route})
				}
			}
		}
	}
	return m, m.page.update(msg)
}

// switchTo leaves the current page and builds the next one. Protected
// routes redirect to the entry page while signed out.
func (m *Model) switchTo(nav NavigateMsg) tea.Cmd {
	if nav.Route.Protected() && !m.signedIn() {
		nav = NavigateMsg{Route: RouteEntry}
	}
	if m.page != nil {
		m.page.leave()
	}
	m.alert = nil
	m.status.Clear()
	m.route = nav.Route

	switch nav.Route {
	case RouteDashboard:
		m.page = newDashboardPage(m.shell)
	case RouteTrips:
		m.page = newTripsPage(m.shell)
	case RouteItinerary:
		m.page = newItineraryPage(m.shell, nav.TripID)
	case RouteSafety:
		m.page = newSafetyPage(m.shell)
	case RouteAssistant:
		m.page = newAssistantPage(m.shell, nav.TripID)
	default:
		m.route = RouteEntry
		m.page = newEntryPage(m.shell)
	}

	m.header.SetActive(-1)
	for i, t := range navTabs {
		if t.route == m.route {
			m.header.SetActive(i)
		}
	}
	if user, ok := m.currentUser(); ok {
		m.header.SetUser(user)
	}
	m.logger.Debug("navigate", "route", m.route.String(), "trip", nav.TripID)

	m.page.update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return m.page.init()
}

func (m Model) currentUser() (string, bool) {
	if m.deps.Session == nil {
		return "", false
	}
	id, ok := m.deps.Session.CurrentUser()
	return id.Email, ok
}

func (m Model) nextTab() Route {
	for i, t := range navTabs {
		if t.route == m.route {
			return navTabs[(i+1)%len(navTabs)].route
		}
	}
	return navTabs[0].route
}

func (m Model) pageID() uint64 {
	if b, ok := m.page.(interface{ pageID() uint64 }); ok {
		return b.pageID()
	}
	return 0
}

func (b *base) pageID() uint64 { return b.id }

// View renders header, page body and status bar, with the blocking alert
// on top when one is raised.
func (m Model) View() string {
	var header string
	if m.route.Protected() {
		header = m.header.View()
	}
	hints := m.page.shortcuts()
	if m.route.Protected() {
		hints = append(hints, shortcut(m.keys.SignOut))
	}
	hints = append(hints, shortcut(m.keys.ForceQuit))
	m.status.SetShortcuts(hints...)
	footer := m.status.View()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if m.alert != nil {
		body = components.AlertOverlay(m.theme, m.width, bodyHeight, m.alert.title, m.alert.message)
	} else {
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(m.page.view(m.width, bodyHeight))
	}

	if header == "" {
		return lipgloss.JoinVertical(lipgloss.Left, body, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
