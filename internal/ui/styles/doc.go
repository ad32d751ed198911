// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Journey360 TUI.

All colours are Lip Gloss AdaptiveColors so the same palette works on light
and dark terminals. The theme mode comes from the [ui] section of the config
file: "dark" and "light" force a palette, "auto" asks the terminal.

# Colours (colors.go)

	Blue    - brand, active tabs, primary buttons
	Teal    - map panel
	Indigo  - lodging badges, assistant bubbles
	Emerald - success, low risk, costs
	Amber   - warnings, moderate risk, transit alerts
	Rose    - errors, critical alerts, high risk
	Sky     - informational alerts

AlertColor and RiskColor map alert categories and risk labels onto the
palette. Status lines always carry a text indicator ([OK], [X], [!], [i])
alongside the colour.

# Theme (theme.go)

Theme holds every Lip Gloss style the pages use. Call SetSize on every
tea.WindowSizeMsg; widths under 60 columns switch to compact styles.

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(msg.Width, msg.Height)
	title := theme.PageTitle.Render("My Trips")

# Animations (animations.go)

Spinner frame sets, the ASCII progress bar used by the budget slider and
the risk score, and the timeline connectors.
*/
package styles
