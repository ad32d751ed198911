// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/journey360-tui/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap holds the bindings shared by every page. Page-specific keys are
// declared next to the page.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	SignOut   key.Binding
	NextTab   key.Binding
	Dashboard key.Binding
	Trips     key.Binding
	Safety    key.Binding
	Assistant key.Binding
	Dismiss   key.Binding
	Back      key.Binding
}

// DefaultKeyMap returns the default bindings. Single-character keys only
// fire while no text field has focus.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
		SignOut:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "sign out")),
		NextTab:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "next page")),
		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Trips:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "my trips")),
		Safety:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "safety")),
		Assistant: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "assistant")),
		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("Enter", "dismiss")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "back")),
	}
}

// shortcut converts a binding's help into a status bar hint.
func shortcut(b key.Binding) components.Shortcut {
	h := b.Help()
	return components.Shortcut{Key: h.Key, Desc: h.Desc}
}

// navTabs are the header tabs in route order.
var navTabs = []struct {
	route Route
	tab   components.NavTab
}{
	{RouteDashboard, components.NavTab{Key: "1", Label: "Dashboard"}},
	{RouteTrips, components.NavTab{Key: "2", Label: "My Trips"}},
	{RouteSafety, components.NavTab{Key: "3", Label: "Safety"}},
	{RouteAssistant, components.NavTab{Key: "4", Label: "Assistant"}},
}
