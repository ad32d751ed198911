// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package trip contains the travel domain types exchanged with the backend.
//
// This package defines trips, generated itineraries and safety assessments,
// together with the validation applied to every payload the backend returns.
// Decoding is deliberately tolerant about representation (numbers sent as
// strings, alternate field names) and strict about shape: Validate rejects
// payloads that would otherwise render as empty zero values.
//
// # Key Types
//
//   - Trip / NewTrip: a stored travel plan and the create-trip request body
//   - Itinerary: ordered Days plus a CostSummary and recommended Lodging
//   - Place: one stop within a Day, optionally geocoded
//   - SafetyAssessment / Alert: risk level and safety notices for a location
//
// # Usage
//
//	var it trip.Itinerary
//	if err := json.Unmarshal(body, &it); err != nil {
//	    return err
//	}
//	if err := it.Validate(); err != nil {
//	    return err
//	}
//	day, _ := it.DayByNumber(1)
package trip
