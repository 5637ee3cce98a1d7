// Package watch reruns generation when Go sources change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before OnChange runs.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Dirs are watched non-recursively.
	Dirs []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Ignore reports paths whose changes are dropped, e.g. generated files.
	Ignore func(path string) bool
	// Logger receives debug output. Nil means no logging.
	Logger *zap.Logger
}

// Watcher monitors package directories and reports bursts of changes to
// .go files.
type Watcher struct {
	opts Options
	log  *zap.Logger
}

// New creates a Watcher.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{opts: opts, log: log}
}

// Run blocks until ctx is done. onChange is called with the sorted set of
// changed files once no further change arrived for the debounce period.
// Errors returned by onChange are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, files []string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.opts.Dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}

		w.log.Debug("watching directory", zap.String("dir", dir))
	}

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			w.log.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			clear(pending)

			if err := onChange(ctx, files); err != nil {
				w.log.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if filepath.Ext(base) != ".go" || strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}

	return w.opts.Ignore == nil || !w.opts.Ignore(event.Name)
}
