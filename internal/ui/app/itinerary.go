// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/util"
	"github.com/jeranaias/journey360-tui/internal/viewstate"
)

// =============================================================================
// ITINERARY - day timeline, lodging, map and regeneration
// =============================================================================

// NearbyRadius is the search radius used by the nearby panel, in meters.
const NearbyRadius = 1000

type itineraryFocus int

const (
	focusTimeline itineraryFocus = iota
	focusLodging
)

type itineraryPanel int

const (
	panelNone itineraryPanel = iota
	panelNearby
	panelSummary
)

var itineraryKeys = struct {
	PrevDay, NextDay, Day, Up, Down, Focus, Locate, Book, Regenerate, Nearby, Summary, Ask, Back, Submit key.Binding
}{
	PrevDay:    key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←/→/1-9", "day")),
	NextDay:    key.NewBinding(key.WithKeys("right", "]")),
	Day:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9")),
	Up:         key.NewBinding(key.WithKeys("up", "k")),
	Down:       key.NewBinding(key.WithKeys("down", "j")),
	Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "hotels")),
	Locate:     key.NewBinding(key.WithKeys("enter", "m"), key.WithHelp("Enter", "locate")),
	Book:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "book")),
	Regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
	Nearby:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nearby")),
	Summary:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "recap")),
	Ask:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ask AI")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "back")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
}

type itineraryLoadedMsg struct {
	pageMsg
	itinerary *trip.Itinerary
	err       error
}

type regeneratedMsg struct {
	pageMsg
	generation uint64
	result     *trip.RegenerateResult
	err        error
}

type nearbyMsg struct {
	pageMsg
	request uint64
	places  []trip.NearbyPlace
	err    error
}

type summaryMsg struct {
	pageMsg
	request uint64
	text    string
	err     error
}

type itineraryPage struct {
	base
	tripID string
	state  viewstate.State

	loading  bool
	notFound string

	focus  itineraryFocus
	cursor int // selected place on the active day
	hotel  int // selected lodging row

	prompt      textinput.Model
	prompting   bool
	regenCancel context.CancelFunc

	panel        itineraryPanel
	panelReq     uint64 // bumped on every open and close; older results are dropped
	panelLoading bool
	panelErr     string
	nearby       []trip.NearbyPlace
	summary      string

	spinner  components.Spinner
	viewport viewport.Model
}

func newItineraryPage(sh *shell, tripID string) *itineraryPage {
	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.Placeholder = "e.g. More street food, fewer museums"
	prompt.CharLimit = 300
	return &itineraryPage{
		base:     sh.newBase(),
		tripID:   strings.TrimSpace(tripID),
		state:    viewstate.Initial(),
		prompt:   prompt,
		spinner:  components.NewSpinner(sh.theme, styles.GlobeSpinner),
		viewport: viewport.New(80, 20),
	}
}

func (p *itineraryPage) init() tea.Cmd {
	if p.tripID == "" {
		p.notFound = "No trip was selected."
		return nil
	}
	if p.deps.Backend == nil {
		p.notFound = api.ErrUnauthenticated.Error()
		return nil
	}
	p.loading = true
	backend, tag, id := p.deps.Backend, p.tag(), p.tripID
	ctx, done := p.cancels.begin(context.Background())
	return tea.Batch(p.spinner.Start("Loading itinerary"), func() tea.Msg {
		defer done()
		it, err := backend.GetItinerary(ctx, id)
		return itineraryLoadedMsg{pageMsg: tag, itinerary: it, err: err}
	})
}

func (p *itineraryPage) capturing() bool { return p.prompting }

func (p *itineraryPage) leave() {
	if p.regenCancel != nil {
		p.regenCancel()
	}
	p.base.leave()
}

func (p *itineraryPage) shortcuts() []components.Shortcut {
	switch {
	case p.prompting:
		return []components.Shortcut{shortcut(itineraryKeys.Submit), {Key: "Esc", Desc: "cancel"}}
	case p.state.Regenerating:
		return []components.Shortcut{{Key: "Esc", Desc: "cancel"}}
	case p.state.Itinerary == nil:
		return []components.Shortcut{shortcut(itineraryKeys.Back)}
	}
	focus := shortcut(itineraryKeys.Focus)
	if p.focus == focusLodging {
		focus.Desc = "timeline"
	}
	return []components.Shortcut{
		shortcut(itineraryKeys.PrevDay), focus, shortcut(itineraryKeys.Locate),
		shortcut(itineraryKeys.Book), shortcut(itineraryKeys.Regenerate),
		shortcut(itineraryKeys.Nearby), shortcut(itineraryKeys.Summary),
		shortcut(itineraryKeys.Ask),
	}
}

// dispatch applies a view-state event.
func (p *itineraryPage) dispatch(ev viewstate.Event) {
	p.state = viewstate.Reduce(p.state, ev)
}

func (p *itineraryPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.viewport.Width = msg.Width
		p.viewport.Height = max(msg.Height, 3)
		return nil

	case itineraryLoadedMsg:
		p.loading = false
		p.spinner.Stop()
		if msg.err != nil || msg.itinerary == nil || len(msg.itinerary.Days) == 0 {
			detail := fmt.Sprintf("Trip %s has no itinerary yet.", p.tripID)
			if msg.err != nil {
				detail = userMessage(msg.err)
				p.logger.Warn("get itinerary failed", "trip", p.tripID, "not_found", api.IsNotFound(msg.err), "error", msg.err)
			}
			p.notFound = detail
			return nil
		}
		p.dispatch(viewstate.ItineraryLoaded{Itinerary: msg.itinerary})
		p.resetSelection()
		return nil

	case regeneratedMsg:
		return p.regenerated(msg)

	case nearbyMsg:
		if msg.request != p.panelReq {
			p.logger.Debug("dropping stale nearby result", "request", msg.request, "current", p.panelReq)
			return nil
		}
		p.panelLoading = false
		if msg.err != nil {
			p.panelErr = userMessage(msg.err)
			return nil
		}
		p.nearby = msg.places
		return nil

	case summaryMsg:
		if msg.request != p.panelReq {
			// The recap is trip wide, so a late one is still worth keeping.
			if msg.err == nil {
				p.summary = msg.text
			}
			return nil
		}
		p.panelLoading = false
		if msg.err != nil {
			p.panelErr = userMessage(msg.err)
			return nil
		}
		p.summary = msg.text
		return nil

	case tea.KeyMsg:
		if p.prompting {
			return p.handlePrompt(msg)
		}
		return p.handleKey(msg)
	}

	if p.loading || p.state.Regenerating {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (p *itineraryPage) resetSelection() {
	p.cursor = 0
	p.hotel = 0
}

func (p *itineraryPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, itineraryKeys.Back) {
		switch {
		case p.state.Regenerating:
			p.cancelRegeneration()
		case p.panel != panelNone:
			p.closePanel()
		default:
			return Navigate(RouteTrips, "")
		}
		return nil
	}
	if p.state.Itinerary == nil || p.state.Regenerating {
		return nil
	}

	switch {
	case key.Matches(msg, itineraryKeys.PrevDay):
		p.selectDay(p.state.StepDay(-1))
	case key.Matches(msg, itineraryKeys.NextDay):
		p.selectDay(p.state.StepDay(1))
	case key.Matches(msg, itineraryKeys.Day):
		// Digits past the last day are ignored rather than falling back.
		if n := int(msg.Runes[0] - '0'); p.hasDay(n) {
			p.selectDay(n)
		}
	case key.Matches(msg, itineraryKeys.Up):
		p.move(-1)
	case key.Matches(msg, itineraryKeys.Down):
		p.move(1)
	case key.Matches(msg, itineraryKeys.Focus):
		if p.focus == focusTimeline && len(p.state.Itinerary.TopHotels) > 0 {
			p.focus = focusLodging
		} else {
			p.focus = focusTimeline
		}
	case key.Matches(msg, itineraryKeys.Locate):
		if pl, ok := p.selectedPlace(); ok {
			p.dispatch(viewstate.PlaceLocated{Place: pl})
		}
	case key.Matches(msg, itineraryKeys.Book):
		if pl, ok := p.selectedPlace(); ok {
			p.status.SetStatus(components.StatusInfo, "Book "+pl.Name+": "+pl.BookingSearchURL())
		}
	case key.Matches(msg, itineraryKeys.Regenerate):
		p.prompting = true
		p.prompt.SetValue("")
		return p.prompt.Focus()
	case key.Matches(msg, itineraryKeys.Nearby):
		return p.openNearby()
	case key.Matches(msg, itineraryKeys.Summary):
		return p.openSummary()
	case key.Matches(msg, itineraryKeys.Ask):
		return Navigate(RouteAssistant, p.tripID)
	default:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (p *itineraryPage) selectDay(n int) {
	if n == p.state.ActiveDay {
		return
	}
	p.dispatch(viewstate.DaySelected{Day: n})
	p.cursor = 0
}

func (p *itineraryPage) hasDay(n int) bool {
	_, ok := p.state.Itinerary.DayByNumber(n)
	return ok
}

func (p *itineraryPage) move(delta int) {
	if p.focus == focusLodging {
		p.hotel = clampIndex(p.hotel+delta, len(p.state.Itinerary.TopHotels))
		return
	}
	if d := p.state.Day(); d != nil {
		p.cursor = clampIndex(p.cursor+delta, len(d.Places))
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// selectedPlace returns the highlighted timeline place, or the highlighted
// hotel viewed as a place.
func (p *itineraryPage) selectedPlace() (trip.Place, bool) {
	if p.focus == focusLodging {
		hotels := p.state.Itinerary.TopHotels
		if p.hotel < len(hotels) {
			return hotels[p.hotel].AsPlace(), true
		}
		return trip.Place{}, false
	}
	d := p.state.Day()
	if d == nil || p.cursor >= len(d.Places) {
		return trip.Place{}, false
	}
	return d.Places[p.cursor], true
}

// =============================================================================
// REGENERATION
// =============================================================================

func (p *itineraryPage) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, itineraryKeys.Back):
		p.prompting = false
		p.prompt.Blur()
		return nil
	case key.Matches(msg, itineraryKeys.Submit):
		instruction := strings.TrimSpace(p.prompt.Value())
		if instruction == "" {
			return nil
		}
		p.prompting = false
		p.prompt.Blur()
		return p.regenerate(instruction)
	}
	var cmd tea.Cmd
	p.prompt, cmd = p.prompt.Update(msg)
	return cmd
}

func (p *itineraryPage) regenerate(instruction string) tea.Cmd {
	p.dispatch(viewstate.RegenerationRequested{Instruction: instruction})
	if !p.state.Regenerating {
		return nil
	}
	p.closePanel()
	p.status.Clear()

	backend, tag, id, gen := p.deps.Backend, p.tag(), p.tripID, p.state.Generation
	parent, done := p.cancels.begin(context.Background())
	ctx, cancel := context.WithCancel(parent)
	p.regenCancel = cancel
	p.logger.Info("regenerating itinerary", "trip", id, "generation", gen)

	return tea.Batch(p.spinner.Start("Regenerating itinerary"), func() tea.Msg {
		defer done()
		defer cancel()
		res, err := backend.RegenerateItinerary(ctx, id, instruction, nil)
		return regeneratedMsg{pageMsg: tag, generation: gen, result: res, err: err}
	})
}

func (p *itineraryPage) cancelRegeneration() {
	p.dispatch(viewstate.RegenerationCancelled{})
	if p.regenCancel != nil {
		p.regenCancel()
		p.regenCancel = nil
	}
	p.spinner.Stop()
	p.status.SetStatus(components.StatusWarning, "Regeneration cancelled")
}

func (p *itineraryPage) regenerated(msg regeneratedMsg) tea.Cmd {
	if msg.generation != p.state.Generation || !p.state.Regenerating {
		p.logger.Debug("dropping stale regeneration", "generation", msg.generation, "current", p.state.Generation)
		return nil
	}
	p.spinner.Stop()
	p.regenCancel = nil

	if msg.err != nil {
		p.dispatch(viewstate.RegenerationFailed{Generation: msg.generation, Err: msg.err})
		p.showAlert("Failed to regenerate itinerary", userMessage(msg.err))
		return nil
	}
	it := &msg.result.UpdatedItinerary
	p.dispatch(viewstate.RegenerationSucceeded{Generation: msg.generation, Itinerary: it})
	p.resetSelection()
	p.status.SetStatus(components.StatusSuccess, util.FirstNonEmpty(strings.TrimSpace(msg.result.Message), "Itinerary updated"))
	return nil
}

// =============================================================================
// PANELS
// =============================================================================

// panelCenter is where the nearby search looks: the marker when one is set,
// otherwise the camera.
func (p *itineraryPage) panelCenter() geo.Point {
	if p.state.Marker != nil {
		return p.state.Marker.Point
	}
	return p.state.Center
}

func (p *itineraryPage) closePanel() {
	p.panel = panelNone
	p.panelReq++
	p.panelLoading = false
}

func (p *itineraryPage) openNearby() tea.Cmd {
	p.panel = panelNearby
	p.panelReq++
	p.panelErr = ""
	p.nearby = nil
	p.panelLoading = true
	backend, tag, id, center, req := p.deps.Backend, p.tag(), p.tripID, p.panelCenter(), p.panelReq
	ctx, done := p.cancels.begin(context.Background())
	return func() tea.Msg {
		defer done()
		places, err := backend.NearbyPlaces(ctx, id, center, NearbyRadius)
		return nearbyMsg{pageMsg: tag, request: req, places: places, err: err}
	}
}

func (p *itineraryPage) openSummary() tea.Cmd {
	p.panel = panelSummary
	p.panelReq++
	p.panelErr = ""
	p.panelLoading = false
	if p.summary != "" {
		return nil
	}
	p.panelLoading = true
	backend, tag, id, req := p.deps.Backend, p.tag(), p.tripID, p.panelReq
	ctx, done := p.cancels.begin(context.Background())
	return func() tea.Msg {
		defer done()
		text, err := backend.TripSummary(ctx, id)
		return summaryMsg{pageMsg: tag, request: req, text: text, err: err}
	}
}

func (p *itineraryPage) panelView(width int) string {
	th := p.theme
	var title, body string
	switch p.panel {
	case panelNearby:
		title = fmt.Sprintf("Nearby (within %dm of %s)", NearbyRadius, p.panelCenter())
		switch {
		case len(p.nearby) == 0:
			body = th.Muted.Render("Nothing from this trip is close by.")
		default:
			var lines []string
			for _, n := range p.nearby {
				lines = append(lines, fmt.Sprintf("%s %s %s",
					th.PlaceName.Render(n.Name),
					th.Muted.Render(n.Category),
					th.Cost.Render(fmt.Sprintf("%.0fm", n.DistanceMeters))))
			}
			body = strings.Join(lines, "\n")
		}
	case panelSummary:
		title = "Trip recap"
		body = p.md.Render(p.summary, width-4)
	default:
		return ""
	}
	switch {
	case p.panelLoading:
		body = th.Muted.Render("Loading...")
	case p.panelErr != "":
		body = components.InlineError(th, p.panelErr)
	}
	return th.Card.Width(max(width-2, 10)).Render(th.CardTitle.Render(title) + "\n" + body)
}

// =============================================================================
// VIEW
// =============================================================================

func (p *itineraryPage) view(width, height int) string {
	th := p.theme
	if p.notFound != "" {
		return components.NotFoundPage(th, width, height, p.notFound)
	}
	it := p.state.Itinerary
	if it == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, p.spinner.View())
	}

	header := th.PageTitle.Render(it.Title())
	if d := p.state.Day(); d != nil && (d.Date != "" || d.WeatherNote != "") {
		header += "\n" + th.Subtitle.Render(joinDot(d.Date, d.WeatherNote))
	}
	tabs := components.DayTabs(th, it, p.state.ActiveDay, width)

	wide := th.GetLayoutMode() == styles.LayoutWide
	listWidth := width
	if wide {
		listWidth = width * 3 / 5
	}

	placeSel, hotelSel := p.cursor, -1
	if p.focus == focusLodging {
		placeSel, hotelSel = -1, p.hotel
	}
	list := components.Timeline(th, p.state.Day(), it.Currency(), placeSel, listWidth) +
		"\n\n" + components.LodgingList(th, it.TopHotels, hotelSel, listWidth)
	mapPanel := components.MapPanel(th, components.MapViewFor(p.state, p.deps.UI.TileURL, width-listWidth-2))
	if !wide {
		mapPanel = components.MapPanel(th, components.MapViewFor(p.state, p.deps.UI.TileURL, width))
	}

	var main string
	if wide {
		main = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", mapPanel)
	} else {
		main = list + "\n\n" + mapPanel
	}

	parts := []string{header, tabs, main, components.CostStrip(th, it, width)}
	if panel := p.panelView(width); panel != "" {
		parts = append(parts, panel)
	}

	var footer string
	switch {
	case p.prompting:
		footer = th.Label.Render("How should the itinerary change?") + "\n" + p.prompt.View()
	case p.state.Regenerating:
		footer = p.spinner.View()
	}

	p.viewport.Width = width
	p.viewport.Height = max(height-lipgloss.Height(footer), 3)
	p.viewport.SetContent(strings.Join(parts, "\n\n"))
	if footer == "" {
		return p.viewport.View()
	}
	return p.viewport.View() + "\n" + footer
}

func joinDot(parts ...string) string {
	var out []string
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " · ")
}
