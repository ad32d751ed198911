// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes itineraries to shareable files.
//
// # Supported Formats
//
//   - Markdown: day-by-day plan with a YAML front matter header
//   - HTML: a single self-contained page with embedded CSS
//   - JSON: the itinerary exactly as the backend returned it
//
// # Usage
//
//	exporter, err := export.ForFormat("md", opts)
//	path, err := export.ExportToFile(itinerary, exporter, opts)
package export
