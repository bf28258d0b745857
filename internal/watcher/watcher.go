// Package watcher triggers a rebuild when local source files change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/folio/internal/logger"
)

// DefaultDebounce collects bursts of editor writes into one rebuild
const DefaultDebounce = 500 * time.Millisecond

// Watch calls onChange after any of files is written, created, renamed or
// removed, coalescing events that arrive within debounce. It watches the
// parent directories so editors that save by renaming are still seen.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, files []string, debounce time.Duration, onChange func(changed []string)) error {
	if len(files) == 0 {
		return fmt.Errorf("no local sources to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	tracked := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = filepath.Clean(f)
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			logger.Warn("could not watch %s: %v", d, err)
		}
	}
	logger.Info("watching %d file(s) in %d director(ies)", len(tracked), len(dirs))

	// The debounce timer is drained on this loop, so onChange never runs
	// concurrently with itself. Events arriving during a callback are
	// handled once it returns.
	pending := make(map[string]bool)
	var debounced <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debounced:
			debounced = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			pending = make(map[string]bool)
			if len(changed) > 0 && ctx.Err() == nil {
				onChange(changed)
			}
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !tracked[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("change: %s (%s)", name, event.Op)

			pending[name] = true
			debounced = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
