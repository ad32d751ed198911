// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// AuthChangedMsg is delivered to the program after sign-in or sign-out.
type AuthChangedMsg struct {
	User     Identity
	SignedIn bool
}

// Watch forwards session notifications into a Bubble Tea program.
// Call Next after handling each AuthChangedMsg to keep listening.
type Watch struct {
	ch          chan AuthChangedMsg
	done        chan struct{}
	unsubscribe func()
}

// NewWatch subscribes to s. Close releases the subscription.
func NewWatch(s *Session) *Watch {
	w := &Watch{
		ch:   make(chan AuthChangedMsg, 8),
		done: make(chan struct{}),
	}
	w.unsubscribe = s.Subscribe(func(id Identity, signedIn bool) {
		select {
		case w.ch <- AuthChangedMsg{User: id, SignedIn: signedIn}:
		case <-w.done:
		}
	})
	return w
}

// Next returns a command that waits for the next notification.
func (w *Watch) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.ch:
			return msg
		case <-w.done:
			return nil
		}
	}
}

// Close stops forwarding and unblocks any pending Next.
func (w *Watch) Close() {
	w.unsubscribe()
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}
