// Package watcher watches source trees and emits a debounced signal when
// files change, so the task board can be rescanned.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/applog"
)

const DefaultDebounce = 300 * time.Millisecond

var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
}

// Config holds watcher configuration options.
type Config struct {
	// Roots are watched recursively.
	Roots    []string
	Debounce time.Duration
	// Filter reports whether a changed path is relevant. Nil accepts all.
	Filter func(path string) bool
	Logger *zap.Logger
}

// Watcher monitors directory trees and coalesces bursts of events.
type Watcher struct {
	fsw      *fsnotify.Watcher
	cfg      Config
	lg       *zap.Logger
	onChange chan struct{}

	mu      sync.Mutex
	watched map[string]struct{}
}

func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	w := &Watcher{
		fsw:      fsw,
		cfg:      cfg,
		lg:       applog.OrNop(cfg.Logger),
		onChange: make(chan struct{}, 1),
		watched:  make(map[string]struct{}),
	}
	for _, root := range cfg.Roots {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Changes receives one value per debounced burst of relevant events.
func (w *Watcher) Changes() <-chan struct{} {
	return w.onChange
}

// Run processes events until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				w.maybeAddDir(ev.Name)
			}
			if !w.relevant(ev) {
				continue
			}
			w.lg.Debug("File changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.Debounce)
			pending = true
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case w.onChange <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.lg.Warn("Watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if w.cfg.Filter == nil {
		return true
	}
	return w.cfg.Filter(ev.Name)
}

func (w *Watcher) maybeAddDir(p string) {
	if err := w.addTree(p); err != nil {
		w.lg.Debug("Watch new path", zap.String("path", p), zap.Error(err))
	}
}

// addTree adds p and every non-skipped directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
		}
		w.mu.Lock()
		_, seen := w.watched[p]
		w.watched[p] = struct{}{}
		w.mu.Unlock()
		if seen {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return errors.Wrapf(err, "watch %s", p)
		}
		return nil
	})
}

// Watched returns the number of directories being watched.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// SourceFile reports whether p looks like a real source file rather than an
// editor swap or backup file.
func SourceFile(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."), strings.HasSuffix(base, "~"):
		return false
	case strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".tmp"):
		return false
	}
	return true
}

// Roots maps scan paths relative to repo onto the directories to watch. A
// path naming a file is replaced by its directory; no paths means repo.
func Roots(repo string, paths []string) []string {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		root := p
		if repo != "" && !filepath.IsAbs(p) {
			root = filepath.Join(repo, p)
		}
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		roots = append(roots, root)
	}
	return roots
}
