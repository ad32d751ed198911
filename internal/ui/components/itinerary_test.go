// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/viewstate"
)

// =============================================================================
// DAY TABS AND TIMELINE
// =============================================================================

func TestDayTabs(t *testing.T) {
	th := testTheme(120)
	out := DayTabs(th, parisItinerary(), 2, 120)
	if !strings.Contains(out, "Day 1") || !strings.Contains(out, "Day 2") {
		t.Errorf("missing tabs: %q", out)
	}
	if DayTabs(th, nil, 1, 120) != "" {
		t.Error("nil itinerary should render nothing")
	}
}

func TestDayTabs_Overflow(t *testing.T) {
	it := &trip.Itinerary{}
	for i := 1; i <= 14; i++ {
		it.Days = append(it.Days, trip.Day{Number: i})
	}
	out := DayTabs(testTheme(40), it, 1, 40)
	if !strings.Contains(out, "+") {
		t.Errorf("expected an overflow counter: %q", out)
	}
	if strings.Contains(out, "Day 14") {
		t.Error("last tab should have collapsed")
	}
}

func TestTimeline(t *testing.T) {
	th := testTheme(120)
	it := parisItinerary()
	out := Timeline(th, &it.Days[0], it.Currency(), 0, 100)

	for _, want := range []string{
		"Day 1", "2025-04-01", "Sunny",
		"Morning", "> Louvre", "€22", "3h", "World's largest art museum.",
		"Hotel Lutetia", "HOTEL", BookHint,
		"Seine walk", "(no location)",
		"Day total", "€120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("timeline missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, BookHint) != 1 {
		t.Error("only the lodging row gets a Book hint")
	}
}

func TestTimeline_EmptyAndNil(t *testing.T) {
	th := testTheme(80)
	if !strings.Contains(Timeline(th, nil, "€", -1, 80), "No day selected") {
		t.Error("nil day")
	}
	if !strings.Contains(Timeline(th, &trip.Day{Number: 3}, "€", -1, 80), "Nothing planned") {
		t.Error("empty day")
	}
}

func TestCostStrip(t *testing.T) {
	th := testTheme(200)
	it := parisItinerary()
	out := CostStrip(th, it, 200)
	for _, want := range []string{"Food €40", "Stay €200", "Activities €60", "Transport €20", "Total €320", "of €50,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("cost strip missing %q: %s", want, out)
		}
	}

	it.CostSummary.Total = 60000
	if !strings.Contains(CostStrip(th, it, 200), "over €50,000 budget") {
		t.Error("expected over-budget warning")
	}
	if !strings.Contains(CostStrip(th, it, 40), "\n") {
		t.Error("narrow strip should wrap the total")
	}
}

// =============================================================================
// MAP PANEL
// =============================================================================

func TestMapPanel_AlwaysAttributes(t *testing.T) {
	th := testTheme(100)
	out := MapPanel(th, MapViewFor(viewstate.Initial(), "", 60))
	if !strings.Contains(out, geo.DefaultAttribution) {
		t.Error("attribution must always render")
	}
	if !strings.Contains(out, "https://tile.openstreetmap.org/2/") {
		t.Errorf("expected world tile url:\n%s", out)
	}
}

func TestMapPanel_DayAndMarker(t *testing.T) {
	th := testTheme(120)
	s := viewstate.Reduce(viewstate.Initial(), viewstate.ItineraryLoaded{Itinerary: parisItinerary()})
	s = viewstate.Reduce(s, viewstate.PlaceLocated{Place: trip.Place{
		Name: "Louvre", Lat: deg(48.86), Lng: deg(2.33), BookingURL: "https://louvre.example/tickets",
	}})

	mv := MapViewFor(s, "https://tiles.example/{z}/{x}/{y}.png", 80)
	out := MapPanel(th, mv)

	tile := geo.TileAt(geo.Point{Lat: 48.86, Lng: 2.33}, viewstate.CloseZoom)
	for _, want := range []string{
		tile.URL("https://tiles.example/{z}/{x}/{y}.png"),
		"zoom 17",
		"@ Louvre",
		"https://louvre.example/tickets",
		"H Hotel Lutetia",
		geo.DefaultAttribution,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("map missing %q:\n%s", want, out)
		}
	}
	if !strings.ContainsRune(out, glyphMarker) {
		t.Error("plot should contain the marker")
	}
}

func TestPlot_Dimensions(t *testing.T) {
	mv := MapView{Center: geo.Point{Lat: 48.85, Lng: 2.30}, Zoom: 13, Places: parisItinerary().Days[0].Places}
	out := plot(mv, 30, 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("rows = %d", len(lines))
	}
	for _, l := range lines {
		if len([]rune(l)) != 30 {
			t.Errorf("row width %d", len([]rune(l)))
		}
	}
	if !strings.ContainsRune(out, '1') || !strings.ContainsRune(out, glyphLodging) || !strings.ContainsRune(out, glyphCenter) {
		t.Errorf("expected numbered place and lodging pins:\n%s", out)
	}
}

func TestLegend_DistanceFromCentre(t *testing.T) {
	th := testTheme(120)
	mv := MapView{
		Center: geo.Point{Lat: 48.8606, Lng: 2.3376},
		Places: []trip.Place{
			{Name: "Louvre", Lat: deg(48.8606), Lng: deg(2.3376)},
			{Name: "Eiffel Tower", Lat: deg(48.8584), Lng: deg(2.2945)},
		},
	}
	lines := legend(th, mv, 80)
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.Contains(lines[0], "0 m") {
		t.Errorf("centre place should be 0 m: %q", lines[0])
	}
	if !strings.Contains(lines[1], "3.2 km W") {
		t.Errorf("eiffel tower: %q", lines[1])
	}
}

// =============================================================================
// LODGING
// =============================================================================

func TestLodgingList(t *testing.T) {
	th := testTheme(120)
	hotels := parisItinerary().TopHotels
	out := LodgingList(th, hotels, 0, 100)
	for _, want := range []string{"Where to stay", "> Hotel Lutetia", "4.7", "€450", "Art deco", BookHint, "google.com/search"} {
		if !strings.Contains(out, want) {
			t.Errorf("lodging missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(LodgingList(th, hotels, -1, 100), BookHint) {
		t.Error("book link only on the selected row")
	}
	if !strings.Contains(LodgingList(th, nil, -1, 100), "No hotel") {
		t.Error("empty list")
	}
}
