// Package reload watches shader files and signals when they change.
//
// The watcher never touches the GL context. It only reports changes; the
// render loop polls Pending and rebuilds on its own thread.
package reload

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files.
type Watcher struct {
	fsw     *fsnotify.Watcher
	files   map[string]bool
	changed chan string
	errs    chan error
	done    chan struct{}
	logger  *slog.Logger
}

// New watches paths. Their parent directories are watched so editors that
// save by renaming a temporary file are still seen.
func New(logger *slog.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool),
		changed: make(chan string, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %q: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.logger.Debug("shader file changed", "path", abs, "op", event.Op.String())
			// Coalesce: one pending notification is enough to trigger a rebuild.
			select {
			case w.changed <- abs:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
				w.logger.Warn("shader watcher error dropped", "err", err)
			}
		}
	}
}

// Changed delivers the path of a changed file. Bursts of changes are
// coalesced into a single pending value.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Errors delivers watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Pending reports, without blocking, whether a change is waiting and
// consumes it.
func (w *Watcher) Pending() bool {
	select {
	case <-w.changed:
		return true
	default:
		return false
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
