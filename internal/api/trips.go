// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
)

// Generic failure messages, shown when the backend gives no detail.
const (
	msgCreateTrip     = "Failed to create trip"
	msgListTrips      = "Failed to fetch trips"
	msgGenerate       = "Failed to generate itinerary"
	msgGetItinerary   = "Failed to fetch itinerary"
	msgRegenerate     = "Failed to regenerate itinerary"
	msgChat           = "Failed to chat with AI"
	msgAssessSafety   = "Failed to assess safety"
	msgNearby         = "Failed to fetch nearby places"
	msgSummary        = "Failed to generate trip summary"
	defaultNearbyArea = 1000.0
)

// =============================================================================
// TRIPS
// =============================================================================

// CreateTrip stores a new trip. The draft is normalized by the caller; it is
// validated here after the authentication check.
func (c *Client) CreateTrip(ctx context.Context, draft trip.NewTrip) (*trip.Trip, error) {
	const op = "create trip"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trip: %w", err)
	}

	var out trip.Trip
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    "/trip/create",
		body:    draft,
		failMsg: msgCreateTrip,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validate(op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTrips returns the user's trips, newest first.
func (c *Client) ListTrips(ctx context.Context) ([]trip.Trip, error) {
	const op = "list trips"
	var out []trip.Trip
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodGet,
		path:    "/trips",
		failMsg: msgListTrips,
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, &MalformedResponseError{Op: op, Cause: fmt.Errorf("trips[%d]: %w", i, err)}
		}
	}
	if out == nil {
		out = []trip.Trip{}
	}
	return out, nil
}

// =============================================================================
// ITINERARIES
// =============================================================================

// GenerateItinerary asks the backend to build the itinerary for a trip.
// This is slow; callers should pass a cancellable context.
func (c *Client) GenerateItinerary(ctx context.Context, tripID string) (*trip.Itinerary, error) {
	const op = "generate itinerary"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	if err := requireID(op, tripID); err != nil {
		return nil, err
	}
	return c.itinerary(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    "/ai/itinerary/generate",
		query:   url.Values{"trip_id": {tripID}},
		failMsg: msgGenerate,
	})
}

// GetItinerary fetches the stored itinerary for a trip.
func (c *Client) GetItinerary(ctx context.Context, tripID string) (*trip.Itinerary, error) {
	const op = "get itinerary"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	if err := requireID(op, tripID); err != nil {
		return nil, err
	}
	return c.itinerary(ctx, call{
		op:      op,
		method:  http.MethodGet,
		path:    "/trip/" + url.PathEscape(tripID) + "/itinerary",
		failMsg: msgGetItinerary,
	})
}

func (c *Client) itinerary(ctx context.Context, cl call) (*trip.Itinerary, error) {
	var out trip.Itinerary
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	if err := validate(cl.op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateItinerary replaces a trip's itinerary according to a free-text
// instruction. constraints may be nil.
func (c *Client) RegenerateItinerary(ctx context.Context, tripID, instruction string, constraints map[string]any) (*trip.RegenerateResult, error) {
	const op = "regenerate itinerary"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	if err := requireID(op, tripID); err != nil {
		return nil, err
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.New("regenerate itinerary: instruction is required")
	}
	if constraints == nil {
		constraints = map[string]any{}
	}

	var out trip.RegenerateResult
	err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   "/ai/itinerary/regenerate",
		body: trip.RegenerateRequest{
			TripID:      tripID,
			Instruction: instruction,
			Constraints: constraints,
		},
		failMsg: msgRegenerate,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validate(op, &out.UpdatedItinerary); err != nil {
		return nil, err
	}
	return &out, nil
}

// NearbyPlaces lists itinerary places within radiusMeters of pos.
// A radius <= 0 uses 1 km.
func (c *Client) NearbyPlaces(ctx context.Context, tripID string, pos geo.Point, radiusMeters float64) ([]trip.NearbyPlace, error) {
	const op = "nearby places"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	if err := requireID(op, tripID); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = defaultNearbyArea
	}

	var out []trip.NearbyPlace
	err := c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		path:   "/ai/itinerary/ar-nearby",
		query: url.Values{
			"trip_id": {tripID},
			"lat":     {strconv.FormatFloat(pos.Lat, 'f', -1, 64)},
			"lng":     {strconv.FormatFloat(pos.Lng, 'f', -1, 64)},
			"radius":  {strconv.FormatFloat(radiusMeters, 'f', -1, 64)},
		},
		failMsg: msgNearby,
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Place.Validate(); err != nil {
			return nil, &MalformedResponseError{Op: op, Cause: fmt.Errorf("places[%d]: %w", i, err)}
		}
	}
	return out, nil
}

// TripSummary returns a narrative recap of a trip.
func (c *Client) TripSummary(ctx context.Context, tripID string) (string, error) {
	const op = "trip summary"
	if !c.signedIn() {
		return "", ErrUnauthenticated
	}
	if err := requireID(op, tripID); err != nil {
		return "", err
	}
	var out trip.Summary
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    "/ai/post-trip/summary",
		query:   url.Values{"trip_id": {tripID}},
		failMsg: msgSummary,
	}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", &MalformedResponseError{Op: op, Cause: errors.New("empty summary")}
	}
	return out.Text, nil
}

// =============================================================================
// SAFETY AND CHAT
// =============================================================================

// AssessSafety returns the risk assessment for a free-text location.
func (c *Client) AssessSafety(ctx context.Context, location string) (*trip.SafetyAssessment, error) {
	const op = "assess safety"
	if !c.signedIn() {
		return nil, ErrUnauthenticated
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("assess safety: location is required")
	}

	var out trip.SafetyAssessment
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    "/ai/safety/assess",
		query:   url.Values{"location": {location}},
		failMsg: msgAssessSafety,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := validate(op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends a message to the backend assistant. tripID is optional and
// gives the assistant the trip as context.
func (c *Client) Chat(ctx context.Context, message, tripID string) (string, error) {
	const op = "chat"
	q := url.Values{"message": {message}}
	if tripID != "" {
		q.Set("trip_id", tripID)
	}

	var out trip.ChatReply
	err := c.do(ctx, call{
		op:      op,
		method:  http.MethodPost,
		path:    "/ai/chat",
		query:   q,
		failMsg: msgChat,
	}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Reply) == "" {
		return "", &MalformedResponseError{Op: op, Cause: errors.New("empty reply")}
	}
	return out.Reply, nil
}

func (c *Client) signedIn() bool {
	return c.tokens != nil && c.tokens.SignedIn()
}
