// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"fmt"
	"math"
	"strings"
)

// OpenStreetMap tile endpoint and the attribution its usage policy requires.
const (
	DefaultTileURL     = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "© OpenStreetMap contributors"

	MinZoom = 0
	MaxZoom = 19
)

// maxMercatorLat is the latitude where Web Mercator is cut off.
const maxMercatorLat = 85.05112878

// Tile addresses one slippy-map tile.
type Tile struct {
	Z int
	X int
	Y int
}

// TileAt returns the tile containing p at the given zoom level.
// Zoom is clamped to [MinZoom, MaxZoom] and latitude to the Mercator range.
func TileAt(p Point, zoom int) Tile {
	zoom = ClampZoom(zoom)
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p.Lat))
	n := math.Exp2(float64(zoom))

	x := int(math.Floor((p.Lng + 180) / 360 * n))
	latRad := toRadians(lat)
	y := int(math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n))

	maxIndex := int(n) - 1
	return Tile{Z: zoom, X: clampInt(x, 0, maxIndex), Y: clampInt(y, 0, maxIndex)}
}

// URL expands a {z}/{x}/{y} template for this tile.
func (t Tile) URL(template string) string {
	if template == "" {
		template = DefaultTileURL
	}
	r := strings.NewReplacer(
		"{z}", fmt.Sprint(t.Z),
		"{x}", fmt.Sprint(t.X),
		"{y}", fmt.Sprint(t.Y),
	)
	return r.Replace(template)
}

// ClampZoom keeps a zoom level inside the range tile servers accept.
func ClampZoom(zoom int) int {
	return clampInt(zoom, MinZoom, MaxZoom)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
