// Package watch re-runs the export when the configuration or the KiCad
// project files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/kicadexport/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a re-run.
const DefaultDebounce = 2 * time.Second

// Options selects what to watch.
type Options struct {
	ConfigPath string
	ProjectDir string
	// OutputDir is ignored even when it lies inside ProjectDir.
	OutputDir string
	Debounce  time.Duration
}

// RunFunc performs one export. Errors are logged and watching continues.
type RunFunc func(ctx context.Context) error

// Run calls run once, then again after every debounced batch of relevant
// changes, until ctx is canceled.
func Run(ctx context.Context, opts Options, run RunFunc) error {
	f, err := newFilter(opts)
	if err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(f.config)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}
	if f.project != "" {
		addDirsRecursive(watcher, f.project, f.output)
	}

	runOnce(ctx, run)

	rebuildReq, trigger, stop := debouncer(opts.Debounce)
	defer stop()

	slog.Info("Watching for changes", logfields.File(f.config), logfields.Path(f.project))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, statErr := os.Stat(ev.Name); statErr == nil && fi.IsDir() && !f.inOutput(ev.Name) {
					addDirsRecursive(watcher, ev.Name, f.output)
				}
			}
			if f.relevant(ev.Name) {
				slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				trigger()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		case <-rebuildReq:
			slog.Info("Change detected; re-running export")
			runOnce(ctx, run)
		}
	}
}

func runOnce(ctx context.Context, run RunFunc) {
	if err := run(ctx); err != nil {
		slog.Error("Export failed", logfields.Error(err))
	}
}

// debouncer returns a channel that receives once per quiet period following
// calls to trigger.
func debouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root, skip string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if skip != "" && isWithin(skip, path) {
			return filepath.SkipDir
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// filter decides which paths trigger a re-run. All paths are absolute.
type filter struct {
	config  string
	project string
	output  string
}

func newFilter(opts Options) (*filter, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("watch requires a configuration file")
	}
	f := &filter{}
	var err error
	if f.config, err = filepath.Abs(opts.ConfigPath); err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if opts.ProjectDir != "" {
		if f.project, err = filepath.Abs(opts.ProjectDir); err != nil {
			return nil, fmt.Errorf("resolve project dir: %w", err)
		}
	}
	if opts.OutputDir != "" {
		if f.output, err = filepath.Abs(opts.OutputDir); err != nil {
			return nil, fmt.Errorf("resolve output dir: %w", err)
		}
	}
	return f, nil
}

func (f *filter) relevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if abs == f.config {
		return true
	}
	if f.inOutput(abs) || f.project == "" || !isWithin(f.project, abs) {
		return false
	}
	base := filepath.Base(abs)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_autosave") {
		return false
	}
	switch filepath.Ext(base) {
	case ".kicad_pcb", ".kicad_sch":
		return true
	}
	return false
}

func (f *filter) inOutput(path string) bool {
	return f.output != "" && isWithin(f.output, path)
}

// isWithin reports whether path is dir or lies beneath it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
