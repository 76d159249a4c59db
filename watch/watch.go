// Package watch reruns a compile when any file it read changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/logger"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls a function after files in its set change.
//
// Directories are watched rather than files, so editors that save by
// renaming a temporary file over the original are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	fn       func()
	debounce time.Duration
	log      *zap.SugaredLogger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	startOnce sync.Once
	closeOnce sync.Once
	started   bool
	done      chan struct{}
	stopped   chan struct{}
	closeErr  error
}

// New creates a watcher for files. fn runs on the watcher's goroutine after
// debounce has passed without further changes; it must not call Close.
func New(files []string, debounce time.Duration, fn func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		fn:       fn,
		debounce: debounce,
		log:      logger.ComponentLogger("watch"),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	if err := w.Reset(files); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Reset replaces the watched file set. Directories already watched stay
// watched; events for files outside the set are ignored.
func (w *Watcher) Reset(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.files = make(map[string]bool, len(files))
	added := 0
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", f)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warnw("Cannot watch directory", logger.FieldFile, dir, logger.FieldError, err)
			continue
		}
		w.dirs[dir] = true
		added++
	}

	if len(w.dirs) == 0 && len(files) > 0 {
		return errors.Newf("none of the %d files can be watched", len(files))
	}
	w.log.Debugw("Watch set updated",
		logger.FieldCount, len(w.files),
		"dirs", len(w.dirs),
		"new_dirs", added)
	return nil
}

// Files returns the watched files in no particular order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.started = true
		w.mu.Unlock()
		go w.loop()
	})
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.Start()
	<-ctx.Done()
	return w.Close()
}

// Close stops watching and waits for the background goroutine to exit.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()

		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.stopped
		}
	})
	return w.closeErr
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			w.fn()
		}
	}
}

// relevant reports whether event touches a watched file. Chmod alone is ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(event.Name)]
}
