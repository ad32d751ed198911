// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL MANAGEMENT (THREAD-SAFE)
// =============================================================================

// cancelManager tracks the contexts of a page's in-flight requests.
// Commands run on their own goroutines, so access is mutex-protected.
// IMPORTANT: hold it by pointer so model copies share one manager.
type cancelManager struct {
	mu      sync.Mutex
	next    int
	cancels map[int]context.CancelFunc
	closed  bool
}

func newCancelManager() *cancelManager {
	return &cancelManager{cancels: make(map[int]context.CancelFunc)}
}

// begin derives a context for one request. done must be called when the
// request finishes. After cancelAll, begin returns an already-cancelled
// context.
func (cm *cancelManager) begin(parent context.Context) (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(parent)
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.closed {
		cancel()
		return ctx, func() {}
	}
	id := cm.next
	cm.next++
	cm.cancels[id] = cancel
	return ctx, func() {
		cm.mu.Lock()
		delete(cm.cancels, id)
		cm.mu.Unlock()
		cancel()
	}
}

// inFlight returns the number of requests that have not finished.
func (cm *cancelManager) inFlight() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.cancels)
}

// cancelAll cancels every in-flight request. Safe to call more than once.
func (cm *cancelManager) cancelAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, cancel := range cm.cancels {
		cancel()
		delete(cm.cancels, id)
	}
	cm.closed = true
}
