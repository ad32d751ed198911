// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads a config file when it changes on disk.
//
// The parent directory is watched rather than the file itself: editors and
// AtomicWriteFile replace the file via rename, which would drop a file watch.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan Update
}

// Update is delivered after each reload attempt.
type Update struct {
	Config *Config
	Err    error
}

// NewWatcher creates a watcher for the TOML file at path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan Update, 1),
	}, nil
}

// Updates returns the channel of reload results. It is closed when Run exits.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.updates)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := LoadFromPath(w.path)
			w.send(ctx, Update{Config: cfg, Err: err})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ctx, Update{Err: fmt.Errorf("config watch: %w", err)})
		}
	}
}

// send delivers u, dropping a stale undelivered update first.
func (w *Watcher) send(ctx context.Context, u Update) {
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- u:
	case <-ctx.Done():
	}
}
