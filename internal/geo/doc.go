// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geo holds the small amount of map math the itinerary view needs.
//
// # Key Types
//
//   - Point: a WGS84 latitude/longitude pair
//   - Tile: a slippy-map tile address (z/x/y)
//
// The map panel cannot draw raster tiles in a terminal, so it shows the tile
// the camera is centred on (with the provider's mandatory attribution) and
// the distance of each marker from the camera.
package geo
