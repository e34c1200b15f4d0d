package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-spellgen/internal/ctxlog"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// DefaultIgnore lists editor and VCS artefacts that never trigger a run.
func DefaultIgnore() []string {
	return []string{
		"**/.git",
		"**/.git/**",
		"**/.*.swp",
		"**/*~",
		"**/*.tmp",
		"**/.#*",
	}
}

// RunFunc performs one regeneration.
type RunFunc func(ctx context.Context) error

// Config selects what to watch.
type Config struct {
	// Paths are files or directories. Files are tracked through their parent
	// directory so editors that replace the file on save are still seen.
	// Directories are watched recursively.
	Paths []string
	// Exclude lists directories whose events are dropped, typically the
	// output directory when it sits inside a watched tree.
	Exclude []string
	// Ignore holds doublestar patterns matched against the slash path
	// relative to the watched root.
	Ignore   []string
	Debounce time.Duration
	// MaxBatch flushes early once this many distinct paths are pending.
	MaxBatch int
}

// Watcher triggers RunFunc whenever a watched path changes.
type Watcher struct {
	cfg   Config
	run   RunFunc
	fsw   *fsnotify.Watcher
	files map[string]string
	roots []string

	triggers  chan []string
	closeOnce sync.Once
}

// New registers every configured path with fsnotify. Watches are active once
// New returns, so changes made before Run starts are still delivered.
func New(cfg Config, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("watch: run function is required")
	}
	if len(cfg.Paths) == 0 {
		return nil, errors.New("watch: at least one path is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Ignore == nil {
		cfg.Ignore = DefaultIgnore()
	}
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pattern)
		}
	}
	excludes := make([]string, 0, len(cfg.Exclude))
	for _, dir := range cfg.Exclude {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("watch: exclude %q: %w", dir, err)
		}
		excludes = append(excludes, abs)
	}
	cfg.Exclude = excludes

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		run:      run,
		fsw:      fsw,
		files:    make(map[string]string),
		triggers: make(chan []string, 1),
	}
	for _, path := range cfg.Paths {
		if err := w.addPath(path); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		dir := filepath.Dir(abs)
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: %q: %w", dir, err)
		}
		w.files[abs] = dir
		return nil
	}
	w.roots = append(w.roots, abs)
	return w.addTree(abs)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.excluded(path) || w.ignored(path)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: %q: %w", path, err)
		}
		return nil
	})
}

// Close releases the underlying fsnotify watcher. Run calls it on exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// Run performs an initial run, then re-runs after every debounced batch of
// relevant changes until ctx is cancelled. Run errors are logged and the
// watch continues. A cancelled context returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer w.Close()

	debouncer := NewDebouncer(w.cfg.Debounce, w.cfg.MaxBatch, func(paths []string) {
		select {
		case w.triggers <- paths:
		default:
			// a run is already queued and will pick up the latest state
		}
	})
	defer debouncer.Stop()

	w.runOnce(ctx, nil)
	logger.Info("watching for changes", "paths", w.cfg.Paths, "debounce", w.cfg.Debounce)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			if w.relevant(event) {
				debouncer.Add(event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case paths := <-w.triggers:
			w.runOnce(ctx, paths)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, changed []string) {
	if ctx.Err() != nil {
		return
	}
	logger := ctxlog.FromContext(ctx)
	if len(changed) > 0 {
		logger.Info("change detected, regenerating", "changed", changed)
	}
	if err := w.run(ctx); err != nil {
		logger.Error("generation failed", "error", err)
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	path := filepath.Clean(event.Name)
	if _, ok := w.files[path]; ok {
		return true
	}
	if w.excluded(path) || w.ignored(path) {
		return false
	}
	root := w.rootOf(path)
	if root == "" {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = w.addTree(path)
		}
	}
	return true
}

func (w *Watcher) rootOf(path string) string {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func (w *Watcher) excluded(path string) bool {
	for _, dir := range w.cfg.Exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(path string) bool {
	root := w.rootOf(path)
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Ignore {
		if match, _ := doublestar.Match(pattern, rel); match {
			return true
		}
	}
	return false
}
