// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewstate holds the itinerary page's selection and map camera.
//
// State changes only through Reduce, a pure function over a sealed set of
// Event types. Rendering reads State; the page turns key presses and API
// results into Events. Regeneration results carry the generation they were
// issued under, and results from a superseded or cancelled generation are
// dropped.
package viewstate

import (
	"strings"

	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
)

// Map camera constants.
const (
	DefaultZoom = 2
	DayZoom     = 13
	CloseZoom   = 17
)

// DefaultCenter frames the whole world before anything is loaded.
var DefaultCenter = geo.Point{Lat: 20, Lng: 0}

// Marker is the highlighted map pin set by a locate action.
type Marker struct {
	Point      geo.Point
	Label      string
	BookingRef string
	// Stamp increases on every locate, so locating the same place twice
	// still reads as a new selection.
	Stamp uint64
}

// State is everything the itinerary page derives its view from.
type State struct {
	Itinerary *trip.Itinerary
	ActiveDay int
	Center    geo.Point
	Zoom      int
	Marker    *Marker

	Regenerating bool
	// Generation tags the in-flight regeneration.
	Generation uint64
	// Err is the last regeneration failure, cleared by the next success.
	Err error

	stamps uint64
}

// Initial returns the state before an itinerary arrives.
func Initial() State {
	return State{Center: DefaultCenter, Zoom: DefaultZoom}
}

// Day returns the active day, or nil when nothing is loaded.
func (s State) Day() *trip.Day {
	if s.Itinerary == nil {
		return nil
	}
	return s.Itinerary.DayOrFirst(s.ActiveDay)
}

// StepDay returns the day number delta positions away from the active one,
// clamped to the itinerary. Returns ActiveDay when nothing is loaded.
func (s State) StepDay(delta int) int {
	if s.Itinerary == nil || len(s.Itinerary.Days) == 0 {
		return s.ActiveDay
	}
	days := s.Itinerary.Days
	idx := 0
	for i := range days {
		if days[i].Number == s.ActiveDay {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(days) {
		idx = len(days) - 1
	}
	return days[idx].Number
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is a state transition input. The set is closed: only the types in
// this package implement it.
type Event interface {
	event()
}

// ItineraryLoaded delivers a fetched or freshly generated itinerary.
type ItineraryLoaded struct {
	Itinerary *trip.Itinerary
}

// DaySelected picks a day tab by number.
type DaySelected struct {
	Day int
}

// PlaceLocated centres the map on a place (or lodging viewed as a place).
type PlaceLocated struct {
	Place trip.Place
}

// RegenerationRequested starts a regeneration with a free-text instruction.
type RegenerationRequested struct {
	Instruction string
}

// RegenerationSucceeded delivers the replacement itinerary.
type RegenerationSucceeded struct {
	Generation uint64
	Itinerary  *trip.Itinerary
}

// RegenerationFailed reports a failed regeneration.
type RegenerationFailed struct {
	Generation uint64
	Err        error
}

// RegenerationCancelled abandons the in-flight regeneration. Its result,
// if one still arrives, is dropped.
type RegenerationCancelled struct{}

func (ItineraryLoaded) event()       {}
func (DaySelected) event()           {}
func (PlaceLocated) event()          {}
func (RegenerationRequested) event() {}
func (RegenerationSucceeded) event() {}
func (RegenerationFailed) event()    {}
func (RegenerationCancelled) event() {}

// =============================================================================
// REDUCER
// =============================================================================

// Reduce applies ev to s and returns the new state. s is not modified.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case ItineraryLoaded:
		return load(s, ev.Itinerary)

	case DaySelected:
		if s.Itinerary == nil {
			return s
		}
		d := s.Itinerary.DayOrFirst(ev.Day)
		if d == nil {
			return s
		}
		s.ActiveDay = d.Number
		return recenter(s, d)

	case PlaceLocated:
		return locate(s, ev.Place)

	case RegenerationRequested:
		if s.Itinerary == nil || strings.TrimSpace(ev.Instruction) == "" {
			return s
		}
		s.Regenerating = true
		s.Generation++
		return s

	case RegenerationSucceeded:
		if !s.current(ev.Generation) {
			return s
		}
		if ev.Itinerary == nil || len(ev.Itinerary.Days) == 0 {
			s.Regenerating = false
			return s
		}
		s = load(s, ev.Itinerary)
		s.Regenerating = false
		s.Err = nil
		return s

	case RegenerationFailed:
		if !s.current(ev.Generation) {
			return s
		}
		s.Regenerating = false
		s.Err = ev.Err
		return s

	case RegenerationCancelled:
		if s.Regenerating {
			s.Regenerating = false
			s.Generation++
		}
		return s
	}
	return s
}

// current reports whether a result tagged gen belongs to the in-flight request.
func (s State) current(gen uint64) bool {
	return s.Regenerating && gen == s.Generation
}

func load(s State, it *trip.Itinerary) State {
	if it == nil || len(it.Days) == 0 {
		return s
	}
	s.Itinerary = it
	s.Marker = nil
	s.ActiveDay = it.Days[0].Number
	return recenter(s, &it.Days[0])
}

// recenter moves the camera to the day's first located place. A day without
// coordinates leaves the camera where it is.
func recenter(s State, d *trip.Day) State {
	if pt, ok := d.FirstCoordinate(); ok {
		s.Center = pt
		s.Zoom = DayZoom
	}
	return s
}

func locate(s State, p trip.Place) State {
	if pt, ok := p.Coordinate(); ok {
		s.stamps++
		s.Marker = &Marker{
			Point:      pt,
			Label:      p.Name,
			BookingRef: p.BookingReference(),
			Stamp:      s.stamps,
		}
		s.Center = pt
		s.Zoom = CloseZoom
		return s
	}
	if s.Itinerary == nil {
		return s
	}
	if pt, ok := s.Itinerary.FirstLodgingCoordinate(); ok {
		s.Center = pt
		s.Zoom = DayZoom
	}
	return s
}
