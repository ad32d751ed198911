// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for distances.
const EarthRadiusMeters = 6371000.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the WGS84 ranges.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// String formats the point the way the map panel shows it.
func (p Point) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lng)
}

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(a, b Point) float64 {
	lat1, lng1 := toRadians(a.Lat), toRadians(a.Lng)
	lat2, lng2 := toRadians(b.Lat), toRadians(b.Lng)

	dLat := lat2 - lat1
	dLng := lng2 - lng1
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// BearingDegrees returns the initial compass bearing from a to b in [0, 360).
func BearingDegrees(a, b Point) float64 {
	lat1, lng1 := toRadians(a.Lat), toRadians(a.Lng)
	lat2, lng2 := toRadians(b.Lat), toRadians(b.Lng)

	y := math.Sin(lng2-lng1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lng2-lng1)
	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

// CompassPoint maps a bearing to one of eight compass directions.
func CompassPoint(bearing float64) string {
	dirs := [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int(math.Round(math.Mod(bearing+360, 360)/45)) % len(dirs)
	return dirs[idx]
}

// FormatDistance renders meters as "850 m" or "1.2 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
