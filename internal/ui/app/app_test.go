// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/api/apitest"
	"github.com/jeranaias/journey360-tui/internal/assistant"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
)

// =============================================================================
// DRIVER
// =============================================================================

// driver runs commands on goroutines and feeds their messages back into
// the model, the way the Bubble Tea runtime does.
type driver struct {
	t    *testing.T
	m    Model
	msgs chan tea.Msg
	quit bool
}

func (d *driver) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() { d.msgs <- cmd() }()
}

func (d *driver) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			d.run(c)
		}
		return
	case spinner.TickMsg:
		return
	case tea.QuitMsg:
		d.quit = true
		return
	}
	// Cursor blinks reschedule themselves forever.
	if strings.HasPrefix(fmt.Sprintf("%T", msg), "cursor.") {
		return
	}
	next, cmd := d.m.Update(msg)
	d.m = next.(Model)
	d.run(cmd)
}

// settle processes messages until none arrive for a short while.
func (d *driver) settle() {
	for {
		select {
		case msg := <-d.msgs:
			d.handle(msg)
		case <-time.After(250 * time.Millisecond):
			return
		}
	}
}

// until processes messages until cond holds.
func (d *driver) until(what string, cond func() bool) {
	d.t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case msg := <-d.msgs:
			d.handle(msg)
		case <-deadline:
			d.t.Fatalf("timed out waiting for %s; route=%s view:\n%s", what, d.m.Route(), d.m.View())
		}
	}
}

func (d *driver) send(msg tea.Msg) {
	d.handle(msg)
	d.settle()
}

func (d *driver) typeText(s string) {
	d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (d *driver) press(k tea.KeyType) {
	d.send(tea.KeyMsg{Type: k})
}

func (d *driver) view() string { return d.m.View() }

type harness struct {
	*driver
	backend *apitest.Backend
	session *session.Session
}

// newHarness wires the program to a fake backend. With signedIn the user
// is logged in before the program starts.
func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()
	b := apitest.New(t)
	b.AddUser("traveller@example.com", "secret1")
	sess := session.New(session.NewFirebaseProvider(b.IdentityConfig(), nil))
	if signedIn {
		if err := sess.SignIn(context.Background(), "traveller@example.com", "secret1"); err != nil {
			t.Fatalf("sign in: %v", err)
		}
	}
	client := api.New(b.URL(), sess)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	m := New(Deps{
		Session:   sess,
		Backend:   client,
		Assistant: assistant.New(nil, client),
		UI:        config.UIConfig{Theme: "dark", TileURL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png"},
		Now:       func() time.Time { return now },
	})
	d := &driver{t: t, m: m, msgs: make(chan tea.Msg, 1024)}
	t.Cleanup(func() { d.m.Close() })

	d.run(m.Init())
	d.send(tea.WindowSizeMsg{Width: 120, Height: 60})
	return &harness{driver: d, backend: b, session: sess}
}

func (h *harness) itinerary() *itineraryPage {
	h.t.Helper()
	p, ok := h.m.page.(*itineraryPage)
	if !ok {
		h.t.Fatalf("page = %T, want itinerary", h.m.page)
	}
	return p
}

// =============================================================================
// ENTRY AND ROUTING
// =============================================================================

func TestStartRoute(t *testing.T) {
	if got := newHarness(t, false).m.Route(); got != RouteEntry {
		t.Errorf("signed out start = %s, want entry", got)
	}
	if got := newHarness(t, true).m.Route(); got != RouteDashboard {
		t.Errorf("signed in start = %s, want dashboard", got)
	}
}

func TestProtectedRoutesRedirect(t *testing.T) {
	h := newHarness(t, false)
	for _, r := range []Route{RouteDashboard, RouteTrips, RouteItinerary, RouteSafety, RouteAssistant} {
		h.send(NavigateMsg{Route: r, TripID: "t1"})
		if h.m.Route() != RouteEntry {
			t.Errorf("%s while signed out: route = %s, want entry", r, h.m.Route())
		}
	}
	if h.backend.TotalHits() != 0 {
		t.Errorf("backend saw %d requests while signed out", h.backend.TotalHits())
	}
}

func TestEntry_SignIn(t *testing.T) {
	h := newHarness(t, false)
	h.typeText("traveller@example.com")
	h.press(tea.KeyTab)
	h.typeText("secret1")
	h.press(tea.KeyEnter)

	h.until("dashboard", func() bool { return h.m.Route() == RouteDashboard })
	if !h.session.SignedIn() {
		t.Fatal("session not signed in")
	}
	h.settle()
	if !strings.Contains(h.view(), "traveller@example.com") {
		t.Error("header should show the signed-in user")
	}
}

func TestEntry_InvalidCredentials(t *testing.T) {
	h := newHarness(t, false)
	h.typeText("traveller@example.com")
	h.press(tea.KeyTab)
	h.typeText("wrong-password")
	h.press(tea.KeyEnter)

	h.until("error", func() bool { return h.m.page.(*entryPage).err != "" })
	if got := h.m.page.(*entryPage).err; got != "Invalid email or password" {
		t.Errorf("err = %q", got)
	}
	if h.m.Route() != RouteEntry {
		t.Errorf("route = %s, want entry", h.m.Route())
	}
	if !strings.Contains(h.view(), "Invalid email or password") {
		t.Error("error should render inline")
	}
}

func TestEntry_MissingCredentials(t *testing.T) {
	h := newHarness(t, false)
	h.press(tea.KeyTab)
	h.press(tea.KeyEnter)
	if got := h.m.page.(*entryPage).err; got != errMissingCredentials {
		t.Errorf("err = %q, want %q", got, errMissingCredentials)
	}
	if h.backend.TotalHits() != 0 {
		t.Error("no request should be sent")
	}
}

func TestEntry_SignUpStaysSignedOut(t *testing.T) {
	h := newHarness(t, false)
	h.press(tea.KeyCtrlT)
	h.typeText("a@b.com")
	h.press(tea.KeyTab)
	h.typeText("hunter22")
	h.press(tea.KeyEnter)

	p := h.m.page.(*entryPage)
	h.until("sign-up result", func() bool { return !p.busy && (p.info != "" || p.err != "") })
	if p.err != "" {
		t.Fatalf("sign-up failed: %s", p.err)
	}
	if h.session.SignedIn() {
		t.Error("sign-up must leave the user signed out")
	}
	if h.m.Route() != RouteEntry {
		t.Errorf("route = %s, want entry", h.m.Route())
	}
	if p.mode != modeSignIn {
		t.Error("form should switch back to sign in")
	}
	if !strings.Contains(h.view(), "Account created for a@b.com") {
		t.Error("confirmation should render")
	}
}

func TestSignOutRedirects(t *testing.T) {
	h := newHarness(t, true)
	h.session.SignOut()
	h.until("entry", func() bool { return h.m.Route() == RouteEntry })

	h = newHarness(t, true)
	h.press(tea.KeyCtrlO)
	if h.m.Route() != RouteEntry || h.session.SignedIn() {
		t.Errorf("ctrl+o: route = %s signedIn = %v", h.m.Route(), h.session.SignedIn())
	}
}

func TestTabKeys(t *testing.T) {
	h := newHarness(t, true)
	// Leave the destination field so digits navigate.
	h.press(tea.KeyEsc)
	for _, tc := range []struct {
		key  string
		want Route
	}{{"2", RouteTrips}, {"3", RouteSafety}, {"1", RouteDashboard}} {
		h.typeText(tc.key)
		if h.m.Route() != tc.want {
			t.Errorf("key %s: route = %s, want %s", tc.key, h.m.Route(), tc.want)
		}
		h.press(tea.KeyEsc)
	}
	h.press(tea.KeyCtrlN)
	if h.m.Route() != RouteTrips {
		t.Errorf("ctrl+n from dashboard = %s, want my-trips", h.m.Route())
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_CreateGenerateOpen(t *testing.T) {
	h := newHarness(t, true)
	h.typeText("Kyoto, Japan")
	h.press(tea.KeyTab) // start date
	h.typeText("2025-04-01")
	h.press(tea.KeyTab) // end date
	h.typeText("2025-04-03")
	h.press(tea.KeyTab) // budget
	h.press(tea.KeyTab) // interests
	h.press(tea.KeyRight)
	h.typeText(" ") // culture
	h.press(tea.KeyEnter)

	h.until("itinerary", func() bool {
		p, ok := h.m.page.(*itineraryPage)
		return ok && p.state.Itinerary != nil
	})

	trips := h.backend.Trips()
	if len(trips) != 1 {
		t.Fatalf("trips = %d", len(trips))
	}
	var draft trip.NewTrip
	if err := json.Unmarshal(h.backend.LastBody("/trip/create"), &draft); err != nil {
		t.Fatal(err)
	}
	if draft.Budget != 100000 {
		t.Errorf("budget = %d, want 100000", draft.Budget)
	}
	if len(draft.Interests) != 1 || draft.Interests[0] != "culture" {
		t.Errorf("interests = %v", draft.Interests)
	}
	if draft.Pace != trip.PaceBalanced {
		t.Errorf("pace = %s", draft.Pace)
	}
	if h.backend.Hits("/ai/itinerary/generate") != 1 {
		t.Error("generate should be called once")
	}

	p := h.itinerary()
	if p.tripID != trips[0].ID {
		t.Errorf("opened %q, want %q", p.tripID, trips[0].ID)
	}
	h.settle()
	view := h.view()
	for _, want := range []string{"Day 1", "Day 3", "Map", "© OpenStreetMap contributors", "Kyoto Central Hotel"} {
		if !strings.Contains(view, want) {
			t.Errorf("itinerary view missing %q", want)
		}
	}
}

func TestDashboard_MissingDestination(t *testing.T) {
	h := newHarness(t, true)
	h.press(tea.KeyEnter)
	if h.m.alert == nil || h.m.alert.message != errNoDestination {
		t.Fatalf("alert = %+v", h.m.alert)
	}
	if !strings.Contains(h.view(), errNoDestination) {
		t.Error("alert should render")
	}
	if h.backend.Hits("/trip/create") != 0 {
		t.Error("nothing should be sent")
	}

	h.press(tea.KeyEnter)
	if h.m.alert != nil {
		t.Error("enter should dismiss the alert")
	}
}

func TestDashboard_CreateFailure(t *testing.T) {
	h := newHarness(t, true)
	h.backend.FailNext("/trip/create", 500, "Database unavailable")
	h.typeText("Lisbon")
	h.press(tea.KeyEnter)

	h.until("alert", func() bool { return h.m.alert != nil })
	if h.m.alert.title != "Failed to create trip" {
		t.Errorf("alert title = %q", h.m.alert.title)
	}
	if h.backend.Hits("/ai/itinerary/generate") != 0 {
		t.Error("generate must not run after a failed create")
	}
	if h.m.Route() != RouteDashboard {
		t.Errorf("route = %s", h.m.Route())
	}
}

// =============================================================================
// ITINERARY
// =============================================================================

// openTrip creates a generated trip through the API and opens it.
func openTrip(t *testing.T, h *harness) string {
	t.Helper()
	client := api.New(h.backend.URL(), h.session)
	created, err := client.CreateTrip(context.Background(), trip.NewTrip{
		Destination: "Paris, France", Budget: 60000, Interests: []string{"culture"},
		Pace: trip.PaceBalanced, StartDate: "2025-04-01", EndDate: "2025-04-02",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.GenerateItinerary(context.Background(), created.ID); err != nil {
		t.Fatal(err)
	}
	h.send(NavigateMsg{Route: RouteItinerary, TripID: created.ID})
	h.until("itinerary", func() bool { return h.itinerary().state.Itinerary != nil })
	return created.ID
}

func TestItinerary_NotFound(t *testing.T) {
	h := newHarness(t, true)
	h.send(NavigateMsg{Route: RouteItinerary, TripID: "missing"})
	h.until("not found", func() bool { return h.itinerary().notFound != "" })
	if !strings.Contains(h.view(), components.NotFoundTitle) {
		t.Error("not-found page should render")
	}
}

func TestItinerary_DaysAndLocate(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()

	h.press(tea.KeyRight)
	if p.state.ActiveDay != 2 {
		t.Fatalf("active day = %d, want 2", p.state.ActiveDay)
	}
	first, _ := p.state.Day().FirstCoordinate()
	if p.state.Center != first {
		t.Errorf("center = %v, want %v", p.state.Center, first)
	}

	h.press(tea.KeyDown)
	h.press(tea.KeyEnter)
	if p.state.Marker == nil {
		t.Fatal("locate should set a marker")
	}
	if want := p.state.Day().Places[1].Name; p.state.Marker.Label != want {
		t.Errorf("marker = %q, want %q", p.state.Marker.Label, want)
	}

	h.press(tea.KeyTab)
	h.typeText("b")
	if !strings.Contains(h.view(), "Book Paris Central Hotel") {
		t.Error("booking link should show in the status bar")
	}
}

func TestItinerary_DigitSelectsDay(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()

	h.typeText("2")
	if p.state.ActiveDay != 2 {
		t.Fatalf("active day = %d, want 2", p.state.ActiveDay)
	}
	h.typeText("1")
	if p.state.ActiveDay != 1 {
		t.Fatalf("active day = %d, want 1", p.state.ActiveDay)
	}
	h.typeText("9")
	if p.state.ActiveDay != 1 {
		t.Errorf("a day that does not exist moved to %d", p.state.ActiveDay)
	}
}

func TestItinerary_Regenerate(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()

	h.typeText("r")
	if !p.prompting {
		t.Fatal("r should open the prompt")
	}
	h.typeText("more street food")
	h.press(tea.KeyEnter)

	h.until("regeneration", func() bool { return !p.state.Regenerating })
	if got := p.state.Itinerary.GeneratedFrom; got != "more street food" {
		t.Errorf("generated from %q", got)
	}
	if !strings.Contains(h.view(), "Itinerary updated successfully") {
		t.Error("success should show in the status bar")
	}
}

func TestItinerary_RegenerateFailureKeepsItinerary(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()
	before := p.state.Itinerary

	h.backend.FailNext("/ai/itinerary/regenerate", 500, "Failed to regenerate itinerary")
	h.typeText("r")
	h.typeText("faster")
	h.press(tea.KeyEnter)

	h.until("alert", func() bool { return h.m.alert != nil })
	if p.state.Itinerary != before {
		t.Error("itinerary should be kept")
	}
	if p.state.Err == nil {
		t.Error("failure should be recorded")
	}
}

func TestItinerary_CancelRegeneration(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()
	before := p.state.Itinerary

	h.backend.Delay("/ai/itinerary/regenerate", 2*time.Second)
	h.typeText("r")
	h.typeText("slower")
	h.press(tea.KeyEnter)
	if !p.state.Regenerating {
		t.Fatal("regeneration should be in flight")
	}
	h.press(tea.KeyEsc)
	if p.state.Regenerating {
		t.Error("esc should cancel")
	}
	h.settle()
	if p.state.Itinerary != before || h.m.alert != nil {
		t.Error("a cancelled regeneration must not change the page")
	}
}

func TestItinerary_NearbyAndRecap(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()

	h.typeText("n")
	h.until("nearby", func() bool { return !p.panelLoading })
	if p.panel != panelNearby || p.panelErr != "" {
		t.Fatalf("panel = %v err = %q", p.panel, p.panelErr)
	}
	if got := h.backend.LastRequest("/ai/itinerary/ar-nearby"); got == nil || got.URL.Query().Get("radius") == "" {
		t.Error("nearby should send a radius")
	}

	h.press(tea.KeyEsc)
	h.typeText("s")
	h.until("recap", func() bool { return !p.panelLoading })
	if p.summary == "" && p.panelErr == "" {
		t.Error("recap should load")
	}
}

func TestItinerary_StaleNearbyResultsDropped(t *testing.T) {
	h := newHarness(t, true)
	openTrip(t, h)
	p := h.itinerary()
	stale := []trip.NearbyPlace{{Place: trip.Place{Name: "Stale Cafe"}}}

	h.typeText("n")
	h.until("nearby", func() bool { return !p.panelLoading })
	first := p.panelReq

	// Reopened: the first request's answer no longer applies.
	h.press(tea.KeyEsc)
	h.typeText("n")
	h.until("nearby again", func() bool { return !p.panelLoading })
	h.send(nearbyMsg{pageMsg: p.tag(), request: first, places: stale})
	for _, n := range p.nearby {
		if n.Name == "Stale Cafe" {
			t.Fatal("result from a replaced request was shown")
		}
	}

	// Closed: a late answer must not reopen or overwrite anything.
	current := p.panelReq
	h.press(tea.KeyEsc)
	h.send(nearbyMsg{pageMsg: p.tag(), request: current, err: fmt.Errorf("late")})
	if p.panel != panelNone || p.panelErr != "" || p.panelLoading {
		t.Errorf("panel = %v err = %q loading = %v", p.panel, p.panelErr, p.panelLoading)
	}

	// Regenerating closes the panel too.
	h.typeText("n")
	h.until("nearby before regenerate", func() bool { return !p.panelLoading })
	beforeRegen := p.panelReq
	h.typeText("r")
	h.typeText("more parks")
	h.press(tea.KeyEnter)
	h.send(nearbyMsg{pageMsg: p.tag(), request: beforeRegen, places: stale})
	for _, n := range p.nearby {
		if n.Name == "Stale Cafe" {
			t.Fatal("result from before regeneration was shown")
		}
	}
	h.until("regenerated", func() bool { return !p.state.Regenerating })
}

// =============================================================================
// SAFETY AND ASSISTANT
// =============================================================================

func TestSafety_DefaultLocation(t *testing.T) {
	h := newHarness(t, true)
	h.send(NavigateMsg{Route: RouteSafety})
	p := h.m.page.(*safetyPage)
	h.until("assessment", func() bool { return p.assessment != nil || p.err != "" })

	if got := h.backend.LastRequest("/ai/safety/assess").URL.Query().Get("location"); got != trip.DefaultSafetyLocation {
		t.Errorf("location = %q", got)
	}
	h.settle()
	view := h.view()
	for _, want := range []string{"MODERATE", "112", "Protest near city hall"} {
		if !strings.Contains(view, want) {
			t.Errorf("safety view missing %q", want)
		}
	}
}

func TestConfigChanged_AppliesUISettings(t *testing.T) {
	h := newHarness(t, true)
	h.send(ConfigChangedMsg{UI: config.UIConfig{Theme: "light", SafetyLocation: "Rome, Italy", Markdown: true}})
	if h.m.theme.IsDark {
		t.Error("theme should switch to light")
	}

	h.send(NavigateMsg{Route: RouteSafety})
	p := h.m.page.(*safetyPage)
	h.until("assessment", func() bool { return p.assessment != nil || p.err != "" })
	if got := h.backend.LastRequest("/ai/safety/assess").URL.Query().Get("location"); got != "Rome, Italy" {
		t.Errorf("location = %q, want the reloaded default", got)
	}
}

func TestLateResultsAreDropped(t *testing.T) {
	h := newHarness(t, true)
	h.backend.Delay("/ai/safety/assess", 5*time.Second)
	h.send(NavigateMsg{Route: RouteSafety})
	safety := h.m.page.(*safetyPage)
	if safety.cancels.inFlight() != 1 {
		t.Fatalf("in flight = %d, want 1", safety.cancels.inFlight())
	}

	h.send(NavigateMsg{Route: RouteTrips})
	if safety.cancels.inFlight() != 0 {
		t.Error("leaving should cancel the request")
	}
	h.settle()
	if h.m.Route() != RouteTrips || h.m.alert != nil {
		t.Errorf("route = %s alert = %+v", h.m.Route(), h.m.alert)
	}

	// A result addressed to a page that is gone never reaches the current one.
	trips := h.m.page.(*tripsPage)
	h.send(tripsLoadedMsg{pageMsg: safety.tag(), err: fmt.Errorf("stale")})
	if trips.err != "" {
		t.Error("stale result reached the current page")
	}
}

func TestAssistant_Conversation(t *testing.T) {
	h := newHarness(t, true)
	h.send(NavigateMsg{Route: RouteAssistant})
	p := h.m.page.(*assistantPage)
	if len(p.messages) != 1 || p.messages[0].Text != Greeting {
		t.Fatalf("messages = %+v", p.messages)
	}

	h.typeText("best ramen?")
	h.press(tea.KeyEnter)
	h.until("reply", func() bool { return len(p.messages) == 3 })

	reply := p.messages[2]
	if reply.Role != components.RoleAssistant || reply.Failed {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Text != "You asked: best ramen?" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if p.messages[1].ID == reply.ID {
		t.Error("message IDs should be unique")
	}
}

func TestAssistant_FailureShowsFallback(t *testing.T) {
	h := newHarness(t, true)
	h.backend.FailNext("/ai/chat", 500, "Failed to chat with AI")
	h.send(NavigateMsg{Route: RouteAssistant})
	p := h.m.page.(*assistantPage)

	h.typeText("hello")
	h.press(tea.KeyEnter)
	h.until("reply", func() bool { return len(p.messages) == 3 })
	if !p.messages[2].Failed || p.messages[2].Text != assistant.FallbackReply {
		t.Errorf("reply = %+v", p.messages[2])
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, true)
	h.press(tea.KeyEsc)
	h.typeText("q")
	if !h.quit {
		t.Error("q should quit when no field has focus")
	}
}
