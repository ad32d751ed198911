// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/geo"
	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/viewstate"
)

// =============================================================================
// MAP PANEL
// =============================================================================

// Map glyphs.
const (
	glyphCenter  = '+'
	glyphMarker  = '@'
	glyphLodging = 'H'
	glyphEmpty   = '.'
)

// MapView is everything the map panel draws.
type MapView struct {
	Center  geo.Point
	Zoom    int
	Marker  *viewstate.Marker
	Places  []trip.Place   // active day's places
	Lodging []trip.Lodging // recommended hotels
	TileURL string         // {z}/{x}/{y} template; empty means OpenStreetMap
	Width   int
	Height  int // plot rows; 0 picks a default
}

// MapViewFor builds the panel input from the itinerary view state.
func MapViewFor(s viewstate.State, tileURL string, width int) MapView {
	mv := MapView{
		Center:  s.Center,
		Zoom:    s.Zoom,
		Marker:  s.Marker,
		TileURL: tileURL,
		Width:   width,
	}
	if d := s.Day(); d != nil {
		mv.Places = d.Places
	}
	if s.Itinerary != nil {
		mv.Lodging = s.Itinerary.TopHotels
	}
	return mv
}

// MapPanel renders a coarse plot of the day, the tile address of the
// camera, the attribution and a legend with distances from the centre.
// The attribution is always rendered.
func MapPanel(theme *styles.Theme, mv MapView) string {
	inner := contentWidth(mv.Width, theme.MapPanel.GetHorizontalFrameSize())
	tile := geo.TileAt(mv.Center, mv.Zoom)

	var sb strings.Builder
	sb.WriteString(theme.CardTitle.Render("Map") +
		theme.Muted.Render(fmt.Sprintf("  %s  zoom %d", mv.Center, tile.Z)) + "\n")
	sb.WriteString(plot(mv, inner, mv.plotHeight()) + "\n")
	sb.WriteString(theme.Muted.Render(truncate(tile.URL(mv.TileURL), inner)) + "\n")

	for _, l := range legend(theme, mv, inner) {
		sb.WriteString(l + "\n")
	}
	sb.WriteString(theme.Attribution.Render(geo.DefaultAttribution))

	return theme.MapPanel.Width(inner + theme.MapPanel.GetHorizontalPadding()).Render(sb.String())
}

func (mv MapView) plotHeight() int {
	if mv.Height > 0 {
		return mv.Height
	}
	return 8
}

type pin struct {
	pt    geo.Point
	glyph rune
}

// pins lists everything with a coordinate, lowest priority first so the
// marker and centre are drawn on top.
func (mv MapView) pins() []pin {
	var out []pin
	for i := range mv.Lodging {
		p := mv.Lodging[i].AsPlace()
		if pt, ok := p.Coordinate(); ok {
			out = append(out, pin{pt, glyphLodging})
		}
	}
	n := 0
	for i := range mv.Places {
		pt, ok := mv.Places[i].Coordinate()
		if !ok {
			continue
		}
		n++
		g := rune('0' + n%10)
		if mv.Places[i].IsLodging() {
			g = glyphLodging
		}
		out = append(out, pin{pt, g})
	}
	out = append(out, pin{mv.Center, glyphCenter})
	if mv.Marker != nil {
		out = append(out, pin{mv.Marker.Point, glyphMarker})
	}
	return out
}

// plot projects the pins onto a width x height character grid fitted to
// their bounding box.
func plot(mv MapView, width, height int) string {
	pins := mv.pins()
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, p := range pins {
		minLat, maxLat = math.Min(minLat, p.pt.Lat), math.Max(maxLat, p.pt.Lat)
		minLng, maxLng = math.Min(minLng, p.pt.Lng), math.Max(maxLng, p.pt.Lng)
	}
	// Pad the box so a single point sits in the middle.
	padLat := math.Max((maxLat-minLat)*0.1, 1e-4)
	padLng := math.Max((maxLng-minLng)*0.1, 1e-4)
	minLat, maxLat = minLat-padLat, maxLat+padLat
	minLng, maxLng = minLng-padLng, maxLng+padLng

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(glyphEmpty), width))
	}
	for _, p := range pins {
		col := int((p.pt.Lng - minLng) / (maxLng - minLng) * float64(width-1))
		row := int((maxLat - p.pt.Lat) / (maxLat - minLat) * float64(height-1))
		grid[clamp(row, 0, height-1)][clamp(col, 0, width-1)] = p.glyph
	}
	lines := make([]string, height)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// legend lists the marker first, then each numbered place with its
// distance and direction from the centre.
func legend(theme *styles.Theme, mv MapView, width int) []string {
	var out []string
	if m := mv.Marker; m != nil {
		line := theme.MapMarker.Render(string(glyphMarker)+" "+truncate(m.Label, width-4)) +
			theme.Muted.Render("  "+m.Point.String())
		out = append(out, line)
		if m.BookingRef != "" {
			out = append(out, "  "+styles.RenderLink(truncate(m.BookingRef, width-2)))
		}
	}
	n := 0
	for i := range mv.Places {
		p := &mv.Places[i]
		pt, ok := p.Coordinate()
		if !ok {
			continue
		}
		n++
		g := string(rune('0' + n%10))
		if p.IsLodging() {
			g = string(glyphLodging)
		}
		d := geo.DistanceMeters(mv.Center, pt)
		where := geo.FormatDistance(d)
		if d >= 1 {
			where += " " + geo.CompassPoint(geo.BearingDegrees(mv.Center, pt))
		}
		out = append(out, g+" "+truncate(p.Name, width-16)+theme.Muted.Render("  "+where))
	}
	return out
}
