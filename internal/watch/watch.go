// Package watch re-runs the enhancer whenever a binding file in a directory
// changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"bindEnhance/internal/enhancer"
	"bindEnhance/internal/model"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrNotDirectory means the watch root is not a directory.
	ErrNotDirectory = errors.New("watch root is not a directory")
	// ErrInvalidPattern means a file pattern could not be compiled.
	ErrInvalidPattern = errors.New("invalid file pattern")
)

// Runner augments one file.
type Runner interface {
	Run(ctx context.Context, path string) (model.RunReport, error)
}

// Options configures a Watcher.
type Options struct {
	Root      string
	Patterns  []string
	Debounce  time.Duration
	Recursive bool
	Logger    *zap.Logger
}

// Watcher feeds changed binding files to a Runner, one at a time.
type Watcher struct {
	runner   Runner
	root     string
	patterns []glob.Glob
	debounce time.Duration
	recurse  bool
	logger   *zap.Logger
}

func New(runner Runner, opts Options) (*Watcher, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, opts.Root)
	}

	patterns := make([]glob.Glob, 0, len(opts.Patterns))
	for _, pattern := range opts.Patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		patterns = append(patterns, g)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns", ErrInvalidPattern)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		runner:   runner,
		root:     opts.Root,
		patterns: patterns,
		debounce: debounce,
		recurse:  opts.Recursive,
		logger:   logger,
	}, nil
}

// Match reports whether path names a binding file this watcher handles. The
// base name and the slash path relative to the root are both tried.
func (w *Watcher) Match(path string) bool {
	base := filepath.Base(path)
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, g := range w.patterns {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}

// Scan runs every matching file that already exists under the root.
func (w *Watcher) Scan(ctx context.Context) error {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root && (!w.recurse || hidden(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.Match(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.root, err)
	}
	return w.runAll(ctx, paths)
}

// Run blocks until ctx is done, running changed files after they have been
// quiet for the debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addDirs(fsw, w.root); err != nil {
		return err
	}
	w.logger.Info("watching bindings",
		zap.String("root", w.root),
		zap.Bool("recursive", w.recurse),
		zap.Duration("debounce", w.debounce),
	)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	stopTimer(timer)
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.accept(fsw, event) {
				continue
			}
			pending[event.Name] = struct{}{}
			stopTimer(timer)
			timer.Reset(w.debounce)
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			pending = make(map[string]struct{})
			sort.Strings(paths)
			if err := w.runAll(ctx, paths); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (w *Watcher) accept(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) && w.recurse {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(fsw, event.Name); err != nil {
				w.logger.Warn("watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return false
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.Match(event.Name)
}

func (w *Watcher) addDirs(fsw *fsnotify.Watcher, root string) error {
	if !w.recurse {
		if err := fsw.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// runAll runs each path in order. Per-file failures are logged; only a done
// context stops the batch.
func (w *Watcher) runAll(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		report, err := w.runner.Run(ctx, path)
		switch {
		case err == nil:
			if report.Changed {
				w.logger.Info("binding updated", zap.String("path", path))
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, enhancer.ErrNoRecordsFound), errors.Is(err, enhancer.ErrSourceNotFound):
			w.logger.Debug("skip file", zap.String("path", path), zap.Error(err))
		default:
			w.logger.Error("augment failed", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "."
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
