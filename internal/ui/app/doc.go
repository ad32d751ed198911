// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Journey360 Bubble Tea program: a root Model that owns
// the header, status bar and routing, and one page model per screen.
//
// Network calls run as tea.Cmds and report back as messages tagged with the
// page instance that issued them. Navigating away cancels the page's
// in-flight contexts, and any result that still arrives is dropped because
// its owner no longer matches the current page.
//
// Every page except the entry page requires a signed-in user; navigation to
// a protected page while signed out, or a sign-out while on one, lands on
// the entry page.
package app
