// Package watch notifies the editor when workspace files change on disk,
// so open buffers can warn about external modifications and the explorer
// can refresh. Events are debounced per path because editors and build
// tools often emit bursts of writes for a single logical change.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"quill/internal/logging"
	"quill/pkg/fileops"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// DefaultDebounce is how long a path must stay quiet before its event is
// delivered.
const DefaultDebounce = 200 * time.Millisecond

// Event is one debounced filesystem change inside the workspace.
type Event struct {
	Path      string // workspace-relative, slash-separated
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher monitors a workspace tree recursively. New subdirectories are
// picked up as they are created; directories matching the skip patterns
// are never watched.
type Watcher struct {
	root      string
	fsWatcher *fsnotify.Watcher
	events    chan Event
	stopChan  chan struct{}
	debounce  time.Duration
	skip      []glob.Glob

	mu      sync.Mutex
	running bool
	pending map[string]*time.Timer
}

// New creates a watcher for the workspace directory at root, using the
// standard skip patterns for dependency caches and build output.
func New(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	var skip []glob.Glob
	for _, p := range fileops.DefaultSkipPatterns() {
		g, err := glob.Compile(p)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("invalid skip pattern %q: %w", p, err)
		}
		skip = append(skip, g)
	}

	return &Watcher{
		root:      root,
		fsWatcher: fsWatcher,
		events:    make(chan Event, 64),
		stopChan:  make(chan struct{}),
		debounce:  DefaultDebounce,
		skip:      skip,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// SetDebounce overrides the debounce interval. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Events returns the channel delivering debounced change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start registers the workspace tree and begins delivering events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	go w.loop()
	logging.Info("Workspace watcher started", "root", w.root)
	return nil
}

// Stop halts event delivery and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		logging.Error("Failed to close fsnotify watcher", "error", err)
	}

	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = make(map[string]*time.Timer)

	close(w.events)
	logging.Info("Workspace watcher stopped")
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// addTree registers dir and every non-skipped subdirectory.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees don't abort the watch
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			logging.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(name string) bool {
	for _, g := range w.skip {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == ".." || filepath.IsAbs(rel) {
		return
	}
	rel = filepath.ToSlash(rel)

	// Newly created directories join the watch; their own create events
	// are not surfaced.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.skipDir(filepath.Base(event.Name)) {
				if err := w.addTree(event.Name); err != nil {
					logging.Warn("Failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.schedule(rel, event.Op)
}

// schedule starts or resets the debounce timer for a path.
func (w *Watcher) schedule(rel string, op fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if t, ok := w.pending[rel]; ok {
		t.Stop()
	}
	w.pending[rel] = time.AfterFunc(w.debounce, func() {
		w.deliver(rel, op)
	})
}

func (w *Watcher) deliver(rel string, op fsnotify.Op) {
	// The send happens under the lock so Stop cannot close the channel
	// between the running check and the send. The channel is buffered and
	// the send non-blocking, so the lock is held only briefly.
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.pending, rel)
	if !w.running {
		return
	}

	select {
	case w.events <- Event{Path: rel, Op: op, Timestamp: time.Now()}:
	default:
		logging.Warn("Watcher event channel full, dropped event", "path", rel)
	}
}
