// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components renders Journey360 data for the terminal.

Components are pure: they take domain values (trip.Trip, trip.Itinerary,
trip.SafetyAssessment, viewstate.State) plus a *styles.Theme and return
strings. The only stateful pieces are the Spinner, which wraps the bubbles
spinner, and the Markdown renderer, which caches a glamour renderer per
width.

# Shell

  - Header (header.go): brand, navigation tabs, signed-in user
  - StatusBar (statusbar.go): key hints and a transient status line
  - Spinner (spinner.go): loading indicator with elapsed time
  - AlertOverlay, NotFoundPage, InlineError (error.go)

# Itinerary

  - DayTabs, Timeline, CostStrip (timeline.go)
  - MapPanel (mapview.go): camera, tile URL, attribution, markers
  - LodgingList (lodging.go)

# Other pages

  - TripCard, TripList (tripcard.go)
  - SafetyCards, AlertList (safety.go)
  - ChatBubble, Markdown (message.go)

Long text is wrapped with muesli/reflow and truncated by display width with
go-runewidth so CJK place names line up.
*/
package components
