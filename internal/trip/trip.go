// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package trip

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for trip dates.
const DateLayout = "2006-01-02"

// =============================================================================
// PACE
// =============================================================================

// Pace is the preferred travel tempo for a trip.
type Pace string

const (
	PaceRelaxed   Pace = "Relaxed"
	PaceBalanced  Pace = "Balanced"
	PaceFastPaced Pace = "Fast-Paced"
)

// Paces lists the accepted values in display order.
var Paces = []Pace{PaceRelaxed, PaceBalanced, PaceFastPaced}

// ParsePace matches a pace case-insensitively. "fast" is accepted for Fast-Paced.
func ParsePace(s string) (Pace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relaxed":
		return PaceRelaxed, nil
	case "", "balanced":
		return PaceBalanced, nil
	case "fast", "fast-paced", "fastpaced":
		return PaceFastPaced, nil
	}
	return "", fmt.Errorf("unknown pace %q (want Relaxed, Balanced or Fast-Paced)", s)
}

// =============================================================================
// INTERESTS AND BUDGET
// =============================================================================

// DefaultInterest is sent when the user picks no interests.
const DefaultInterest = "General"

// Interest is one of the preset interest toggles offered by the creator.
type Interest struct {
	ID    string
	Label string
}

// PresetInterests are the toggles shown in the trip creator.
var PresetInterests = []Interest{
	{ID: "adventure", Label: "Adventure"},
	{ID: "culture", Label: "Culture"},
	{ID: "foodie", Label: "Foodie"},
	{ID: "relaxation", Label: "Relaxation"},
	{ID: "photography", Label: "Photography"},
}

// Budget slider bounds. The slider position is scaled by BudgetStep.
const (
	BudgetSliderMin     = 0
	BudgetSliderMax     = 100
	BudgetSliderDefault = 50
	BudgetStep          = 2000
)

// BudgetFromSlider converts a slider position to currency units.
func BudgetFromSlider(pos int) int64 {
	if pos < BudgetSliderMin {
		pos = BudgetSliderMin
	}
	if pos > BudgetSliderMax {
		pos = BudgetSliderMax
	}
	return int64(pos) * BudgetStep
}

// =============================================================================
// TRIP
// =============================================================================

// Trip is a stored travel plan as returned by the backend.
type Trip struct {
	ID          string   `json:"trip_id"`
	UserID      string   `json:"user_id,omitempty"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Days        int      `json:"days,omitempty"`
	Budget      Amount   `json:"budget"`
	BudgetLevel string   `json:"budget_level,omitempty"`
	Interests   []string `json:"interests"`
	Pace        Pace     `json:"travel_pace,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Validate checks the fields every rendered trip needs.
func (t *Trip) Validate() error {
	var v validator
	if strings.TrimSpace(t.ID) == "" {
		v.add("trip_id", "is required")
	}
	if strings.TrimSpace(t.Destination) == "" {
		v.add("destination", "is required")
	}
	if t.Budget < 0 {
		v.add("budget", "must not be negative")
	}
	return v.err()
}

// DateRange renders "2025-04-01 → 2025-04-03", or one date when they match.
func (t *Trip) DateRange() string {
	switch {
	case t.StartDate == "" && t.EndDate == "":
		return ""
	case t.EndDate == "" || t.StartDate == t.EndDate:
		return t.StartDate
	case t.StartDate == "":
		return t.EndDate
	}
	return t.StartDate + " → " + t.EndDate
}

// MatchesDestination reports whether the destination contains query,
// ignoring case. An empty query matches every trip.
func (t *Trip) MatchesDestination(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Destination), strings.ToLower(query))
}

// FilterTrips returns the trips whose destination matches query.
func FilterTrips(trips []Trip, query string) []Trip {
	out := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if t.MatchesDestination(query) {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// NEW TRIP
// =============================================================================

// NewTrip is the create-trip request body.
type NewTrip struct {
	Destination string   `json:"destination"`
	Budget      int64    `json:"budget"`
	Interests   []string `json:"interests"`
	Pace        Pace     `json:"travel_pace"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

// Normalize fills defaults the creator form applies: today's date for missing
// dates, the General interest when none was chosen, and Balanced pace.
func (n NewTrip) Normalize(now time.Time) NewTrip {
	today := now.Format(DateLayout)
	n.Destination = strings.TrimSpace(n.Destination)
	if n.StartDate == "" {
		n.StartDate = today
	}
	if n.EndDate == "" {
		n.EndDate = today
	}
	interests := make([]string, 0, len(n.Interests))
	for _, in := range n.Interests {
		if in = strings.TrimSpace(in); in != "" {
			interests = append(interests, in)
		}
	}
	if len(interests) == 0 {
		interests = []string{DefaultInterest}
	}
	n.Interests = interests
	if n.Pace == "" {
		n.Pace = PaceBalanced
	}
	return n
}

// Validate checks a normalized request before it is sent.
func (n NewTrip) Validate() error {
	var v validator
	if strings.TrimSpace(n.Destination) == "" {
		v.add("destination", "is required")
	}
	if n.Budget < 0 {
		v.add("budget", "must not be negative")
	}
	start, errStart := time.Parse(DateLayout, n.StartDate)
	if errStart != nil {
		v.add("start_date", "must be YYYY-MM-DD")
	}
	end, errEnd := time.Parse(DateLayout, n.EndDate)
	if errEnd != nil {
		v.add("end_date", "must be YYYY-MM-DD")
	}
	if errStart == nil && errEnd == nil && end.Before(start) {
		v.add("end_date", "must not be before start_date")
	}
	if _, err := ParsePace(string(n.Pace)); err != nil {
		v.add("travel_pace", "%v", err)
	}
	return v.err()
}
