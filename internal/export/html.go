// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/journey360-tui/internal/trip"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports itineraries to a single HTML page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts an itinerary to HTML. Every backend string is escaped.
func (e *HTMLExporter) Export(it *trip.Itinerary) ([]byte, error) {
	if err := checkItinerary(it); err != nil {
		return nil, err
	}
	now := e.options.now()
	theme := "dark"
	if strings.EqualFold(e.options.Theme, "light") {
		theme = "light"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(it.Title())))
	sb.WriteString("    <meta name=\"generator\" content=\"journey360-tui\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", now.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.renderHeader(it))

	sb.WriteString("        <main class=\"days\">\n")
	for i := range it.Days {
		sb.WriteString(e.renderDay(it, &it.Days[i]))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString(e.renderExtras(it))

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>Journey360</strong> on %s</p>\n",
		now.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(it *trip.Itinerary) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(it.Title())))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Days:</strong> %d</span>\n", len(it.Days)))
	if it.Budget > 0 {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Budget:</strong> %s</span>\n", html.EscapeString(money(it, it.Budget))))
	}
	if it.CostSummary.Total > 0 {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item cost\"><strong>Estimated total:</strong> %s</span>\n", html.EscapeString(money(it, it.CostSummary.Total))))
	}
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

func (e *HTMLExporter) renderDay(it *trip.Itinerary, d *trip.Day) string {
	var sb strings.Builder

	sb.WriteString("            <section class=\"day\">\n")
	head := d.Label()
	if d.Date != "" {
		head += " · " + d.Date
	}
	sb.WriteString(fmt.Sprintf("                <h2>%s</h2>\n", html.EscapeString(head)))
	if d.WeatherNote != "" {
		sb.WriteString(fmt.Sprintf("                <p class=\"weather\">%s</p>\n", html.EscapeString(d.WeatherNote)))
	}

	sb.WriteString("                <ol class=\"places\">\n")
	for i := range d.Places {
		sb.WriteString(e.renderPlace(it, &d.Places[i]))
	}
	sb.WriteString("                </ol>\n")

	if d.TotalDayCost > 0 {
		sb.WriteString(fmt.Sprintf("                <p class=\"day-total\">Day total: <strong>%s</strong></p>\n", html.EscapeString(money(it, d.TotalDayCost))))
	}
	sb.WriteString("            </section>\n")
	return sb.String()
}

func (e *HTMLExporter) renderPlace(it *trip.Itinerary, p *trip.Place) string {
	var sb strings.Builder

	sb.WriteString("                    <li class=\"place\">\n")
	if p.TimeSlot != "" {
		sb.WriteString(fmt.Sprintf("                        <span class=\"slot\">%s</span>\n", html.EscapeString(p.TimeSlot)))
	}
	sb.WriteString(fmt.Sprintf("                        <span class=\"name\">%s</span>\n", html.EscapeString(p.Name)))
	if p.EstimatedCost > 0 {
		sb.WriteString(fmt.Sprintf("                        <span class=\"cost\">%s</span>\n", html.EscapeString(money(it, p.EstimatedCost))))
	}
	if p.Duration != "" {
		sb.WriteString(fmt.Sprintf("                        <span class=\"muted\">%s</span>\n", html.EscapeString(p.Duration.String())))
	}
	if ref := safeURL(p.BookingReference()); ref != "" {
		sb.WriteString(fmt.Sprintf("                        <a href=\"%s\" rel=\"noopener\">Book</a>\n", html.EscapeString(ref)))
	}
	if p.Description != "" {
		sb.WriteString(fmt.Sprintf("                        <p>%s</p>\n", html.EscapeString(p.Description)))
	}
	sb.WriteString("                    </li>\n")
	return sb.String()
}

func (e *HTMLExporter) renderExtras(it *trip.Itinerary) string {
	var sb strings.Builder

	if len(it.TopHotels) > 0 {
		sb.WriteString("        <section class=\"extra\">\n")
		sb.WriteString("            <h2>Where to stay</h2>\n")
		sb.WriteString("            <ul>\n")
		for _, h := range it.TopHotels {
			line := "<strong>" + html.EscapeString(h.Name) + "</strong>"
			if h.Rating != "" {
				line += " · " + html.EscapeString(h.Rating.String())
			}
			if h.Price != "" {
				line += " · " + html.EscapeString(h.Price.String())
			}
			sb.WriteString(fmt.Sprintf("                <li>%s</li>\n", line))
		}
		sb.WriteString("            </ul>\n")
		sb.WriteString("        </section>\n")
	}

	if it.SafetyAdvisory != "" {
		sb.WriteString("        <section class=\"extra safety\">\n")
		sb.WriteString("            <h2>Safety</h2>\n")
		sb.WriteString(fmt.Sprintf("            <p>%s</p>\n", html.EscapeString(it.SafetyAdvisory)))
		sb.WriteString("        </section>\n")
	}

	if len(it.TravelTips) > 0 {
		sb.WriteString("        <section class=\"extra\">\n")
		sb.WriteString("            <h2>Tips</h2>\n")
		sb.WriteString("            <ul>\n")
		for _, tip := range it.TravelTips {
			sb.WriteString(fmt.Sprintf("                <li>%s</li>\n", html.EscapeString(tip)))
		}
		sb.WriteString("            </ul>\n")
		sb.WriteString("        </section>\n")
	}
	return sb.String()
}

// safeURL keeps only http(s) links; a javascript: booking link from the
// generator must not become clickable.
func safeURL(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return strings.TrimSpace(raw)
	}
	return ""
}

// =============================================================================
// STYLES
// =============================================================================

func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        }

        .dark-theme {
            --bg-primary: #0F172A;
            --bg-secondary: #1E293B;
            --text-primary: #F1F5F9;
            --text-muted: #94A3B8;
            --border-color: #334155;
            --accent-blue: #60A5FA;
            --accent-teal: #2DD4BF;
            --accent-green: #34D399;
            --accent-amber: #FBBF24;
        }

        .light-theme {
            --bg-primary: #FFFFFF;
            --bg-secondary: #F1F5F9;
            --text-primary: #0F172A;
            --text-muted: #64748B;
            --border-color: #E2E8F0;
            --accent-blue: #2563EB;
            --accent-teal: #0D9488;
            --accent-green: #059669;
            --accent-amber: #D97706;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header, .day, .extra, .footer {
            padding: 24px 32px;
            border-bottom: 1px solid var(--border-color);
        }

        .header h1 {
            font-size: 28px;
            color: var(--accent-blue);
            margin-bottom: 12px;
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            color: var(--text-muted);
        }

        h2 {
            font-size: 20px;
            color: var(--accent-teal);
            margin-bottom: 8px;
        }

        .weather, .muted {
            color: var(--text-muted);
        }

        .places {
            list-style: none;
        }

        .place {
            padding: 8px 0;
        }

        .slot {
            display: inline-block;
            min-width: 100px;
            color: var(--accent-blue);
            font-weight: 600;
        }

        .name {
            font-weight: 600;
        }

        .cost, .day-total strong {
            color: var(--accent-green);
            margin-left: 8px;
        }

        .safety p {
            color: var(--accent-amber);
        }

        .extra ul {
            padding-left: 20px;
        }

        a {
            color: var(--accent-blue);
            margin-left: 8px;
        }

        .footer {
            color: var(--text-muted);
            font-size: 14px;
            border-bottom: none;
        }
    </style>
`
}
