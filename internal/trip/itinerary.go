// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package trip

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// CategoryHotel marks a Place as a lodging recommendation.
const CategoryHotel = "hotel"

// =============================================================================
// PLACE
// =============================================================================

// Place is one stop within a Day.
type Place struct {
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	Lat           *Degrees `json:"lat,omitempty"`
	Lng           *Degrees `json:"lng,omitempty"`
	EstimatedCost Amount   `json:"estimatedCost,omitempty"`
	Duration      Text     `json:"duration,omitempty"`
	TimeSlot      string   `json:"timeSlot,omitempty"`
	Description   string   `json:"description,omitempty"`
	SafetyRating  Text     `json:"safetyRating,omitempty"`
	BookingURL    string   `json:"bookingUrl,omitempty"`
	Link          string   `json:"link,omitempty"`
}

// Coordinate returns the place's location when both components are present.
// Zero is a valid coordinate; only a missing component counts as absent.
func (p *Place) Coordinate() (geo.Point, bool) {
	if p.Lat == nil || p.Lng == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: float64(*p.Lat), Lng: float64(*p.Lng)}, true
}

// IsLodging reports whether the place is a hotel recommendation.
func (p *Place) IsLodging() bool {
	return strings.EqualFold(strings.TrimSpace(p.Category), CategoryHotel)
}

// BookingReference returns bookingUrl, falling back to link.
func (p *Place) BookingReference() string {
	return util.FirstNonEmpty(p.BookingURL, p.Link)
}

// BookingSearchURL returns the booking reference, or a web search for the
// place when the generator supplied none.
func (p *Place) BookingSearchURL() string {
	if ref := p.BookingReference(); ref != "" {
		return ref
	}
	return searchURL(p.Name + " booking")
}

// Validate checks shape: a name, and coordinates present in pairs and in range.
func (p *Place) Validate() error {
	var v validator
	if strings.TrimSpace(p.Name) == "" {
		v.add("name", "is required")
	}
	if (p.Lat == nil) != (p.Lng == nil) {
		v.add("lat/lng", "must be both present or both absent")
	}
	if pt, ok := p.Coordinate(); ok && !pt.Valid() {
		v.add("lat/lng", "out of range (%s)", pt)
	}
	if p.EstimatedCost < 0 {
		v.add("estimatedCost", "must not be negative")
	}
	return v.err()
}

// =============================================================================
// DAY
// =============================================================================

// Day is one day of an itinerary.
type Day struct {
	Number       int     `json:"dayNumber"`
	Date         string  `json:"date,omitempty"`
	WeatherNote  string  `json:"weatherNote,omitempty"`
	TotalDayCost Amount  `json:"totalDayCost,omitempty"`
	Places       []Place `json:"places"`
}

// FirstCoordinate returns the location of the first geocoded place.
func (d *Day) FirstCoordinate() (geo.Point, bool) {
	for i := range d.Places {
		if pt, ok := d.Places[i].Coordinate(); ok {
			return pt, true
		}
	}
	return geo.Point{}, false
}

// Label is the tab caption for the day.
func (d *Day) Label() string {
	return fmt.Sprintf("Day %d", d.Number)
}

// =============================================================================
// LODGING
// =============================================================================

// Lodging is a recommended hotel for the destination.
type Lodging struct {
	Name        string   `json:"name"`
	Lat         *Degrees `json:"lat,omitempty"`
	Lng         *Degrees `json:"lng,omitempty"`
	Rating      Text     `json:"rating,omitempty"`
	Price       Text     `json:"price,omitempty"`
	Vibe        string   `json:"vibe,omitempty"`
	Description string   `json:"description,omitempty"`
	BookingURL  string   `json:"bookingUrl,omitempty"`
}

// AsPlace views the lodging as a hotel Place so it can be located on the map.
func (l *Lodging) AsPlace() Place {
	return Place{
		Name:        l.Name,
		Category:    CategoryHotel,
		Lat:         l.Lat,
		Lng:         l.Lng,
		Description: util.FirstNonEmpty(l.Description, l.Vibe),
		BookingURL:  l.BookingURL,
	}
}

// =============================================================================
// ITINERARY
// =============================================================================

// CostSummary breaks the trip cost down by category.
type CostSummary struct {
	Food       Amount `json:"food"`
	Stay       Amount `json:"stay"`
	Activities Amount `json:"activities"`
	Transport  Amount `json:"transport"`
	Total      Amount `json:"total"`
}

// Itinerary is the generated day-by-day plan for one trip.
type Itinerary struct {
	ID             string      `json:"itineraryId,omitempty"`
	TripID         string      `json:"tripId"`
	UserID         string      `json:"userId,omitempty"`
	Destination    string      `json:"destination,omitempty"`
	Budget         Amount      `json:"budget,omitempty"`
	Days           []Day       `json:"days"`
	CostSummary    CostSummary `json:"costSummary"`
	TopHotels      []Lodging   `json:"topHotels,omitempty"`
	CurrencySymbol string      `json:"currencySymbol,omitempty"`
	SafetyAdvisory string      `json:"safetyAdvisory,omitempty"`
	TravelTips     []string    `json:"travelTips,omitempty"`
	GeneratedFrom  string      `json:"generatedFrom,omitempty"`
}

// Currency returns the itinerary's currency symbol or the default.
func (it *Itinerary) Currency() string {
	return util.FirstNonEmpty(it.CurrencySymbol, util.DefaultCurrency)
}

// Title is the page heading for the itinerary.
func (it *Itinerary) Title() string {
	if it.Destination == "" {
		return "Your Itinerary"
	}
	return it.Destination + " Adventure"
}

// DayByNumber returns the day with the given number.
func (it *Itinerary) DayByNumber(n int) (*Day, bool) {
	for i := range it.Days {
		if it.Days[i].Number == n {
			return &it.Days[i], true
		}
	}
	return nil, false
}

// DayOrFirst returns the requested day, or the first day when it is missing.
// Returns nil only for an itinerary without days.
func (it *Itinerary) DayOrFirst(n int) *Day {
	if d, ok := it.DayByNumber(n); ok {
		return d
	}
	if len(it.Days) == 0 {
		return nil
	}
	return &it.Days[0]
}

// FirstLodgingCoordinate returns the location of the top recommended hotel.
func (it *Itinerary) FirstLodgingCoordinate() (geo.Point, bool) {
	if len(it.TopHotels) == 0 {
		return geo.Point{}, false
	}
	p := it.TopHotels[0].AsPlace()
	return p.Coordinate()
}

// Validate rejects itineraries that cannot be rendered: no days, day numbers
// that are not 1..N in order, or malformed places.
func (it *Itinerary) Validate() error {
	var v validator
	if len(it.Days) == 0 {
		v.add("days", "must contain at least one day")
	}
	for i := range it.Days {
		d := &it.Days[i]
		if d.Number != i+1 {
			v.add(fmt.Sprintf("days[%d].dayNumber", i), "got %d, want %d", d.Number, i+1)
		}
		for j := range d.Places {
			v.merge(fmt.Sprintf("days[%d].places[%d]", i, j), d.Places[j].Validate())
		}
	}
	for i := range it.TopHotels {
		p := it.TopHotels[i].AsPlace()
		v.merge(fmt.Sprintf("topHotels[%d]", i), p.Validate())
	}
	if it.CostSummary.Total < 0 {
		v.add("costSummary.total", "must not be negative")
	}
	return v.err()
}

// RegenerateRequest is the body of a regeneration call.
type RegenerateRequest struct {
	TripID      string         `json:"tripId"`
	Instruction string         `json:"instruction"`
	Constraints map[string]any `json:"constraints"`
}

// RegenerateResult is the backend's reply to a regeneration.
type RegenerateResult struct {
	Message          string    `json:"message"`
	UpdatedItinerary Itinerary `json:"updatedItinerary"`
}

// NearbyPlace is an itinerary place within a radius of the traveller.
type NearbyPlace struct {
	Place
	DistanceMeters float64 `json:"distance"`
}

// Summary is the narrative recap of a finished trip.
type Summary struct {
	Text string `json:"summary"`
}

func searchURL(q string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(q)
}
