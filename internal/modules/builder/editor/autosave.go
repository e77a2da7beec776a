package editor

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const DefaultAutosaveDelay = 2 * time.Second

// Snapshot is what gets persisted by an autosave.
type Snapshot struct {
	Document  layout.Document
	Published bool
	Revision  uint64
}

type SavePhase string

const (
	SaveStarted   SavePhase = "started"
	SaveSucceeded SavePhase = "succeeded"
	SaveFailed    SavePhase = "failed"
)

type SaveEvent struct {
	Phase    SavePhase
	Revision uint64
	Err      error
}

type AutosaveConfig struct {
	Delay time.Duration
	// Timeout bounds a single save started by the timer.
	Timeout time.Duration
	// Source returns the state to persist at the moment the save runs.
	Source func() (Snapshot, bool)
	Save   func(ctx context.Context, snap Snapshot) error
	// OnEvent, if set, is called for every save phase. It must not block.
	OnEvent func(SaveEvent)
}

// Autosaver debounces saves: every Schedule restarts one timer, and when it
// fires the latest Source snapshot is saved. Saves never overlap.
type Autosaver struct {
	log *logger.Logger
	cfg AutosaveConfig

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	saveMu sync.Mutex
}

func NewAutosaver(log *logger.Logger, cfg AutosaveConfig) *Autosaver {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultAutosaveDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Autosaver{log: log.With("component", "Autosaver"), cfg: cfg}
}

// Schedule (re)starts the debounce timer.
func (a *Autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(a.cfg.Delay, func() {
		a.mu.Lock()
		if a.timer != t {
			a.mu.Unlock()
			return
		}
		a.timer = nil
		a.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
		defer cancel()
		if err := a.run(ctx); err != nil {
			a.log.Warn("autosave failed", "error", err)
		}
	})
	a.timer = t
}

// Pending reports whether a timer is armed.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Flush cancels any pending timer and saves now.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.cancelTimer()
	return a.run(ctx)
}

// Stop cancels any pending timer; later Schedule calls are ignored. A save
// already running is allowed to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	a.cancelTimer()
}

func (a *Autosaver) cancelTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosaver) run(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	snap, ok := a.cfg.Source()
	if !ok {
		return nil
	}
	a.emit(SaveEvent{Phase: SaveStarted, Revision: snap.Revision})
	if err := a.cfg.Save(ctx, snap); err != nil {
		a.emit(SaveEvent{Phase: SaveFailed, Revision: snap.Revision, Err: err})
		return err
	}
	a.emit(SaveEvent{Phase: SaveSucceeded, Revision: snap.Revision})
	return nil
}

func (a *Autosaver) emit(ev SaveEvent) {
	if a.cfg.OnEvent != nil {
		a.cfg.OnEvent(ev)
	}
}
