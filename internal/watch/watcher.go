package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"footage/internal/logging"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 2 * time.Second

// RunFunc performs one reconciliation pass.
type RunFunc func(ctx context.Context) error

// Watcher watches a fixed set of directory trees.
type Watcher struct {
	roots    []string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger
}

// New returns a watcher over roots. Missing roots are created so files
// dropped into them later are seen.
func New(roots []string, debounce time.Duration, run RunFunc, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		roots:    append([]string(nil), roots...),
		debounce: debounce,
		run:      run,
		logger:   logging.NewComponentLogger(logger, "watch"),
	}
}

// Run performs an initial pass, then reruns after each burst of changes
// until ctx is cancelled. Errors from a pass are logged and do not stop the
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if w.run == nil {
		return errors.New("watch: run function is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, root := range w.roots {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", root, err)
		}
		if err := w.addTree(fw, root); err != nil {
			return err
		}
	}
	w.logger.Info("watching project directories",
		logging.Int("directories", len(fw.WatchList())),
		logging.Duration("debounce", w.debounce))

	w.pass(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !w.relevant(fw, event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			logging.WarnWithContext(w.logger, "filesystem watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "raise fs.inotify.max_user_watches if directories are missing"),
				logging.String(logging.FieldImpact, "some changes may be picked up late"))

		case <-fire:
			fire = nil
			w.pass(ctx)
		}
	}
}

func (w *Watcher) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.ErrorWithContext(w.logger, "reconciliation failed", "watch_run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the reported problem; the next change retries"))
	}
}

func (w *Watcher) relevant(fw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Debug("failed to watch new directory", logging.String(logging.FieldPath, event.Name), logging.Error(err))
			}
		}
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
