// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/journey360-tui/internal/trip"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports itineraries to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts an itinerary to Markdown.
func (e *MarkdownExporter) Export(it *trip.Itinerary) ([]byte, error) {
	if err := checkItinerary(it); err != nil {
		return nil, err
	}
	now := e.options.now()

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(it.Title())))
		if it.Destination != "" {
			sb.WriteString(fmt.Sprintf("destination: %s\n", escapeYAML(it.Destination)))
		}
		sb.WriteString(fmt.Sprintf("trip: %s\n", escapeYAML(it.TripID)))
		sb.WriteString(fmt.Sprintf("days: %d\n", len(it.Days)))
		if it.Budget > 0 {
			sb.WriteString(fmt.Sprintf("budget: %s\n", escapeYAML(money(it, it.Budget))))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", now.Format(time.RFC3339)))
		sb.WriteString("generator: journey360-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(it.Title())))

	if it.Budget > 0 || it.CostSummary.Total > 0 {
		sb.WriteString("## Budget\n\n")
		if it.Budget > 0 {
			sb.WriteString(fmt.Sprintf("- **Budget**: %s\n", money(it, it.Budget)))
		}
		if it.CostSummary.Total > 0 {
			sb.WriteString(fmt.Sprintf("- **Estimated total**: %s\n", money(it, it.CostSummary.Total)))
			sb.WriteString(fmt.Sprintf("- Stay %s · Activities %s · Food %s · Transport %s\n",
				money(it, it.CostSummary.Stay), money(it, it.CostSummary.Activities),
				money(it, it.CostSummary.Food), money(it, it.CostSummary.Transport)))
		}
		sb.WriteString("\n")
	}

	for i := range it.Days {
		sb.WriteString(e.formatDay(it, &it.Days[i]))
	}

	if len(it.TopHotels) > 0 {
		sb.WriteString("## Where to stay\n\n")
		for _, h := range it.TopHotels {
			line := fmt.Sprintf("- **%s**", escapeMarkdown(h.Name))
			if h.Rating != "" {
				line += fmt.Sprintf(" · %s", h.Rating)
			}
			if h.Price != "" {
				line += fmt.Sprintf(" · %s", h.Price)
			}
			sb.WriteString(line + "\n")
			if h.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", h.Description))
			}
		}
		sb.WriteString("\n")
	}

	if it.SafetyAdvisory != "" {
		sb.WriteString("## Safety\n\n")
		sb.WriteString(strings.TrimSpace(it.SafetyAdvisory) + "\n\n")
	}

	if len(it.TravelTips) > 0 {
		sb.WriteString("## Tips\n\n")
		for _, tip := range it.TravelTips {
			sb.WriteString(fmt.Sprintf("- %s\n", tip))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from Journey360 on %s*\n",
		now.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) formatDay(it *trip.Itinerary, d *trip.Day) string {
	var sb strings.Builder

	head := d.Label()
	if d.Date != "" {
		head += " · " + d.Date
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", head))
	if d.WeatherNote != "" {
		sb.WriteString(fmt.Sprintf("*%s*\n\n", d.WeatherNote))
	}

	for _, p := range d.Places {
		line := "- "
		if p.TimeSlot != "" {
			line += fmt.Sprintf("**%s** ", p.TimeSlot)
		}
		line += escapeMarkdown(p.Name)
		var meta []string
		if p.EstimatedCost > 0 {
			meta = append(meta, money(it, p.EstimatedCost))
		}
		if p.Duration != "" {
			meta = append(meta, p.Duration.String())
		}
		if len(meta) > 0 {
			line += " (" + strings.Join(meta, ", ") + ")"
		}
		if ref := p.BookingReference(); ref != "" {
			line += fmt.Sprintf(" [book](%s)", ref)
		}
		sb.WriteString(line + "\n")
		if p.Description != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", strings.TrimSpace(p.Description)))
		}
	}
	if d.TotalDayCost > 0 {
		sb.WriteString(fmt.Sprintf("\nDay total: **%s**\n", money(it, d.TotalDayCost)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*,\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
