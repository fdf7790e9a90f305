// Package watcher surfaces filesystem changes under the scan roots as a
// channel of events for the scan coordinator to fold into batches.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Op classifies a filesystem event.
type Op int

const (
	// OpWrite covers file creation and modification.
	OpWrite Op = iota
	// OpRemove covers deletion and rename-away.
	OpRemove
)

// Event is one observed filesystem change under a watched root.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches the scan roots recursively and delivers change events on
// Events. It does not decide what a change means; the consumer folds events
// into scan batches.
type Watcher struct {
	roots  []string
	events chan Event
	logger *zap.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	started  bool
	closed   bool
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a watcher for the given root directories.
func New(roots []string, opts ...Option) *Watcher {
	w := &Watcher{
		roots:  roots,
		events: make(chan Event, 256),
		logger: zap.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the event stream. The channel closes when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.started = true
	for _, root := range w.roots {
		if err := addRecursive(fsw, root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()

	w.logger.Debug("watcher started", zap.Strings("roots", w.roots))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and closes the event channel. Safe to call
// concurrently with event delivery: the channel is closed under the same
// lock emit holds, so an in-flight emit either lands before the close or is
// discarded.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		fsw := w.fsw
		w.mu.Unlock()
		if fsw != nil {
			_ = fsw.Close()
		}
		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if !w.underRoot(path) {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// A new directory must itself be watched; its contents produce
			// their own events once watched, but files that landed before
			// the watch was in place need a synthetic event each.
			w.addNewDirectory(path)
			return
		}
		w.emit(Event{Path: path, Op: OpWrite})
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.emit(Event{Path: path, Op: OpRemove})
	}
}

func (w *Watcher) addNewDirectory(dir string) {
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	if err := addRecursive(fsw, dir); err != nil {
		w.logger.Debug("failed to watch new directory", zap.String("path", dir), zap.Error(err))
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			w.emit(Event{Path: path, Op: OpWrite})
		}
		return nil
	})
}

// emit drops events instead of blocking: the consumer rescans anyway, so a
// lost event at worst delays one file to the next pass. Events after Stop
// are discarded.
func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("event buffer full, dropping", zap.String("path", ev.Path))
	}
}

func (w *Watcher) underRoot(path string) bool {
	clean := filepath.Clean(path)
	for _, root := range w.roots {
		rootClean := filepath.Clean(root)
		if rootClean == clean || inDir(rootClean, clean) {
			return true
		}
	}
	return false
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return err
			}
		}
		return nil
	})
}
