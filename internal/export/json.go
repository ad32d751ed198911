// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/journey360-tui/internal/trip"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the itinerary in the backend's own JSON shape, so an
// export can be fed back to anything that reads the API.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. Options do not filter JSON
// output.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts an itinerary to indented JSON.
func (e *JSONExporter) Export(it *trip.Itinerary) ([]byte, error) {
	if err := checkItinerary(it); err != nil {
		return nil, err
	}
	return json.MarshalIndent(it, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
