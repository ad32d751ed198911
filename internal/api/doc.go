// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Journey360 trip backend.
//
// Every operation requires a signed-in user and fails with ErrUnauthenticated
// before touching the network otherwise. Requests carry the user's bearer
// token, an X-Request-ID, and the caller's context. Responses are decoded and
// then validated; a payload that does not match the expected shape fails with
// a *MalformedResponseError rather than rendering as empty values.
//
// # Operations
//
//   - CreateTrip, ListTrips
//   - GenerateItinerary, GetItinerary, RegenerateItinerary
//   - AssessSafety, Chat
//   - NearbyPlaces, TripSummary
//
// # Usage
//
//	client := api.NewFromConfig(cfg.Backend, sess, logger)
//	created, err := client.CreateTrip(ctx, draft)
//	if err != nil {
//	    return err
//	}
//	itinerary, err := client.GenerateItinerary(ctx, created.ID)
//
// Nothing is retried automatically; the UI reports failures and the user
// decides whether to try again.
package api
