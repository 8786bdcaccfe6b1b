// SPDX-License-Identifier: MPL-2.0

// Package watch re-resolves a project when its release inputs change.
//
// A Watcher follows a project directory with fsnotify and calls OnChange
// once per burst of events, after a quiet period, with the relative paths
// that changed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("watch: already started")

// DefaultPatterns select the files that change a resolved pipeline: the
// manifest and the metadata directory.
var DefaultPatterns = []string{
	"package.json",
	".github",
	".github/**",
}

// defaultIgnores never trigger callbacks and are never descended into.
var defaultIgnores = []string{
	"**/node_modules",
	"**/node_modules/**",
	"**/.git",
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the project directory. Empty means the working directory.
		Dir string
		// Patterns are doublestar globs relative to Dir. Empty means DefaultPatterns.
		Patterns []string
		// Debounce is the quiet period before OnChange fires.
		Debounce time.Duration
		// OnChange receives the sorted, deduplicated changed paths. Errors are
		// logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// Watcher follows a project directory. Run may be called once.
	Watcher struct {
		dir      string
		patterns []string
		debounce time.Duration
		onChange func(ctx context.Context, changed []string) error
		logger   *log.Logger
		fsw      *fsnotify.Watcher
		started  atomic.Bool
	}
)

// New validates cfg and registers Dir and every matching subdirectory.
func New(cfg Config) (*Watcher, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", dir, err)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	w := &Watcher{
		dir:      abs,
		patterns: patterns,
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if w.onChange == nil {
		w.onChange = func(context.Context, []string) error { return nil }
	}

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := w.addTree(abs); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Match reports whether rel (slash or OS separated, relative to Dir)
// triggers a callback.
func (w *Watcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(defaultIgnores, rel) {
		return false
	}
	return matchAny(w.patterns, rel)
}

// Close releases the underlying watcher. Run closes it on return, so Close
// is only needed when Run is never called.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is done or the watcher fails. Context cancellation
// returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, err := filepath.Rel(w.dir, evt.Name)
			if err != nil || !w.Match(rel) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.addIfDir(evt.Name)
			}
			w.logger.Debug("change", "path", rel, "op", evt.Op.String())

			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("callback failed", "err", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// addTree registers root and every directory under it that matches a
// pattern. Ignored directories are skipped entirely.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.dir, path)
		if err != nil {
			return filepath.SkipDir
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && matchAny(defaultIgnores, rel) {
			return filepath.SkipDir
		}
		if rel == "." || matchAny(w.patterns, rel) {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch: add %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// addIfDir extends the watch to a newly created directory tree.
func (w *Watcher) addIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", "path", path, "err", err)
	}
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
