package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/drip/pkg/core"
)

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	// mu guards lastUnit/lastKnown. Debounce callbacks run on their own
	// timer goroutines; a callback blocked sending into events can overlap
	// the next fired callback.
	mu        sync.Mutex
	lastUnit  core.Unit
	lastKnown bool
}

func newWatchWorker(store *Store, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("unit-watcher"),
		store:      store,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: atomic replaces swap the inode.
	if err := watcher.Add(w.store.config.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch store dir: %w", err)
	}

	w.mu.Lock()
	w.lastUnit, w.lastKnown, _ = w.store.PreferredUnit(ctx)
	w.mu.Unlock()

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// handleSidecarEvent debounces writes to the unit sidecar and emits a
// UNIT_CHANGED event when the preferred unit actually differs.
func (w *watchWorker) handleSidecarEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	if filepath.Base(event.Name) != unitFileName {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.store.config.Logger != nil {
		w.store.config.Logger.Debug("sidecar event received", "name", event.Name, "op", event.Op.String())
	}

	w.debouncer.add("unit", func() {
		defer func() {
			// Recover from panic if channel was closed (worker stopping)
			_ = recover()
		}()

		unit, ok, err := w.store.PreferredUnit(ctx)
		if err != nil {
			w.handleWatcherError(err)
			return
		}
		if !ok {
			return
		}

		// Change detection under the lock: a callback blocked on the send
		// below must not race the next fired callback on these fields.
		w.mu.Lock()
		changed := !w.lastKnown || unit != w.lastUnit
		if changed {
			w.lastUnit = unit
			w.lastKnown = true
		}
		w.mu.Unlock()
		if !changed {
			return
		}

		select {
		case w.events <- core.Event{
			Type:      core.EventUnitChanged,
			Unit:      unit,
			Timestamp: time.Now().Unix(),
		}:
		case <-ctx.Done():
		}
	})
	return true
}

// handleWatcherError processes errors from the fsnotify watcher.
func (w *watchWorker) handleWatcherError(err error) (shouldContinue bool) {
	if w.store.config.Logger != nil {
		w.store.config.Logger.Error("fsnotify error", "error", err)
	}
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
	return true // Continue processing
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			// Stack capture only when debug logging is enabled.
			var stack string
			if w.store.config.Logger != nil && w.store.config.Logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}

			if w.store.config.Logger != nil {
				if stack != "" {
					w.store.config.Logger.Error("watcher panic", "error", panicErr, "stack", stack)
				} else {
					w.store.config.Logger.Error("watcher panic", "error", panicErr)
				}
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()
	// Note: debouncer cleanup is handled explicitly at the end of this function,
	// not via defer, to ensure proper synchronization with all in-flight timers.

	err = w.mainEventLoop(ctx)

	// Shutdown debouncer: stop accepting new events and wait for all in-flight
	// timers to complete, so nothing races the channel close below.
	w.debouncer.stopAndWait(5 * time.Second)
	close(w.events)

	return err
}

// mainEventLoop is the core select loop that processes filesystem and
// watcher events.
func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleSidecarEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
