package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/dropzone"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/editor"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/apierr"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type EditorConfig struct {
	AutosaveDelay time.Duration
	HistoryLimit  int
	IdleTTL       time.Duration
	SaveTimeout   time.Duration
}

// EditorSnapshot is the editor view plus save status, returned by every
// editor call and pushed on history_changed.
type EditorSnapshot struct {
	FunnelID uuid.UUID `json:"funnelId"`
	editor.View
	IsSaving      bool           `json:"isSaving"`
	Dirty         bool           `json:"dirty"`
	LastSaveError string         `json:"lastSaveError,omitempty"`
	LastSavedAt   *time.Time     `json:"lastSavedAt,omitempty"`
	Result        *editor.Result `json:"result,omitempty"`
}

// EditorService owns one editing session per (user, funnel). Every session
// has a single mutator: actions on it are applied one at a time.
type EditorService interface {
	Open(ctx context.Context, funnelID uuid.UUID) (*EditorSnapshot, error)
	Snapshot(ctx context.Context, funnelID uuid.UUID) (*EditorSnapshot, error)
	Dispatch(ctx context.Context, funnelID uuid.UUID, action editor.Action) (*EditorSnapshot, error)
	Drop(ctx context.Context, funnelID uuid.UUID, payload dropzone.Payload, target layout.Path) (*EditorSnapshot, error)
	Save(ctx context.Context, funnelID uuid.UUID, published *bool) (*EditorSnapshot, error)
	Close(ctx context.Context, funnelID uuid.UUID) error

	StartJanitor(ctx context.Context)
	EvictIdle(now time.Time) int
	Shutdown(ctx context.Context) error
}

var ErrEditorNotOpen = errors.New("no open editor session for this funnel")

type sessionKey struct {
	funnelID uuid.UUID
	userID   uuid.UUID
}

func (k sessionKey) String() string { return k.funnelID.String() + ":" + k.userID.String() }

type editorSession struct {
	key       sessionKey
	autosaver *editor.Autosaver

	mu            sync.Mutex
	state         editor.State
	saving        bool
	savedRevision uint64
	lastSaveErr   string
	lastSavedAt   *time.Time
	lastUsed      time.Time

	// retired is set once the session left the map; done closes after its
	// final flush.
	retired bool
	done    chan struct{}
}

type editorService struct {
	log      *logger.Logger
	cfg      EditorConfig
	funnels  FunnelService
	notifier EditorNotifier
	metrics  *observability.Metrics
	now      func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]*editorSession
	retiring map[sessionKey]*editorSession
	opening  singleflight.Group
}

func NewEditorService(log *logger.Logger, cfg EditorConfig, funnels FunnelService, notifier EditorNotifier, metrics *observability.Metrics) EditorService {
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = editor.DefaultAutosaveDelay
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 30 * time.Second
	}
	if notifier == nil {
		notifier = nopEditorNotifier{}
	}
	return &editorService{
		log:      log.With("service", "EditorService"),
		cfg:      cfg,
		funnels:  funnels,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
		sessions: make(map[sessionKey]*editorSession),
		retiring: make(map[sessionKey]*editorSession),
	}
}

func (s *editorService) keyFor(ctx context.Context, funnelID uuid.UUID) (sessionKey, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return sessionKey{}, err
	}
	if funnelID == uuid.Nil {
		return sessionKey{}, errFunnelNotFound()
	}
	return sessionKey{funnelID: funnelID, userID: userID}, nil
}

func (s *editorService) lookup(key sessionKey) *editorSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[key]
}

func (s *editorService) Open(ctx context.Context, funnelID uuid.UUID) (*EditorSnapshot, error) {
	key, err := s.keyFor(ctx, funnelID)
	if err != nil {
		return nil, err
	}
	sess, err := s.getOrOpen(ctx, key)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(s.now(), nil), nil
}

// getOrOpen collapses concurrent opens of the same session into one load.
func (s *editorService) getOrOpen(ctx context.Context, key sessionKey) (*editorSession, error) {
	if sess := s.lookup(key); sess != nil {
		return sess, nil
	}
	v, err, _ := s.opening.Do(key.String(), func() (interface{}, error) {
		if sess := s.lookup(key); sess != nil {
			return sess, nil
		}
		// A session still flushing would be reloaded without its last edits.
		if err := s.awaitRetired(ctx, key); err != nil {
			return nil, err
		}
		doc, published, err := s.funnels.LoadLayout(ctx, key.userID, key.funnelID)
		if err != nil {
			return nil, err
		}
		sess := s.newSession(key, doc, published)

		s.mu.Lock()
		s.sessions[key] = sess
		s.metrics.SetEditorSessions(len(s.sessions))
		s.mu.Unlock()

		s.log.Info("Editor session opened", "funnel_id", key.funnelID, "user_id", key.userID, "sections", len(doc))
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*editorSession), nil
}

// lockLive returns the open session for key with sess.mu held. A session
// retired between lookup and lock is waited out and reopened.
func (s *editorService) lockLive(ctx context.Context, key sessionKey) (*editorSession, error) {
	for {
		sess, err := s.getOrOpen(ctx, key)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if !sess.retired {
			return sess, nil
		}
		sess.mu.Unlock()
		select {
		case <-sess.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *editorService) awaitRetired(ctx context.Context, key sessionKey) error {
	s.mu.Lock()
	old := s.retiring[key]
	s.mu.Unlock()
	if old == nil {
		return nil
	}
	select {
	case <-old.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detachLocked moves sess out of the open set. Caller holds s.mu.
func (s *editorService) detachLocked(sess *editorSession) {
	delete(s.sessions, sess.key)
	s.retiring[sess.key] = sess
}

func (s *editorService) newSession(key sessionKey, doc layout.Document, published bool) *editorSession {
	state, _, _ := editor.Reduce(editor.New(s.cfg.HistoryLimit), editor.Action{
		Type:      editor.ActionLoad,
		Document:  doc,
		Published: &published,
	})
	sess := &editorSession{
		key:           key,
		state:         state,
		savedRevision: state.Revision,
		lastUsed:      s.now(),
		done:          make(chan struct{}),
	}
	sess.autosaver = editor.NewAutosaver(s.log, editor.AutosaveConfig{
		Delay:   s.cfg.AutosaveDelay,
		Timeout: s.cfg.SaveTimeout,
		Source:  sess.pending,
		Save: func(ctx context.Context, snap editor.Snapshot) error {
			ctx, span := observability.Tracer().Start(ctx, "editor.save")
			defer span.End()
			span.SetAttributes(attribute.String("funnel_id", key.funnelID.String()), attribute.Int64("revision", int64(snap.Revision)))

			start := time.Now()
			err := s.funnels.SaveLayout(ctx, key.userID, key.funnelID, snap.Document, snap.Published)
			status := "ok"
			if err != nil {
				status = "error"
				span.RecordError(err)
			}
			s.metrics.ObserveSave(status, time.Since(start))
			return err
		},
		OnEvent: func(ev editor.SaveEvent) { s.onSaveEvent(sess, ev) },
	})
	return sess
}

func (s *editorService) onSaveEvent(sess *editorSession, ev editor.SaveEvent) {
	sess.mu.Lock()
	switch ev.Phase {
	case editor.SaveStarted:
		sess.saving = true
	case editor.SaveSucceeded:
		sess.saving = false
		sess.lastSaveErr = ""
		if ev.Revision > sess.savedRevision {
			sess.savedRevision = ev.Revision
		}
		at := s.now().UTC()
		sess.lastSavedAt = &at
	case editor.SaveFailed:
		sess.saving = false
		if ev.Err != nil {
			sess.lastSaveErr = ev.Err.Error()
		}
	}
	sess.mu.Unlock()

	key := sess.key
	switch ev.Phase {
	case editor.SaveStarted:
		s.notifier.SaveStarted(key.funnelID, key.userID, ev.Revision)
	case editor.SaveSucceeded:
		s.notifier.LayoutSaved(key.funnelID, key.userID, ev.Revision)
	case editor.SaveFailed:
		s.log.Warn("Layout save failed", "funnel_id", key.funnelID, "revision", ev.Revision, "error", ev.Err)
		msg := ""
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		s.notifier.LayoutSaveFailed(key.funnelID, key.userID, ev.Revision, msg)
	}
}

func (s *editorService) Snapshot(ctx context.Context, funnelID uuid.UUID) (*EditorSnapshot, error) {
	key, err := s.keyFor(ctx, funnelID)
	if err != nil {
		return nil, err
	}
	sess := s.lookup(key)
	if sess == nil {
		return nil, apierr.New(http.StatusNotFound, "editor_not_open", ErrEditorNotOpen)
	}
	return sess.snapshot(s.now(), nil), nil
}

func (s *editorService) Dispatch(ctx context.Context, funnelID uuid.UUID, action editor.Action) (*EditorSnapshot, error) {
	key, err := s.keyFor(ctx, funnelID)
	if err != nil {
		return nil, err
	}

	_, span := observability.Tracer().Start(ctx, "editor.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("action", string(action.Type)), attribute.String("funnel_id", key.funnelID.String()))

	sess, err := s.lockLive(ctx, key)
	if err != nil {
		return nil, err
	}
	before := sess.state.Revision
	next, res, err := editor.Reduce(sess.state, action)
	if err != nil {
		sess.mu.Unlock()
		s.metrics.ObserveEditorAction(string(action.Type), "error")
		return nil, apierr.BadRequest("unknown_action", err)
	}
	sess.state = next
	changed := next.Revision != before
	snap := sess.snapshotLocked(s.now(), &res)
	sess.mu.Unlock()

	s.metrics.ObserveEditorAction(string(action.Type), actionOutcome(res))
	if res.Rejected {
		s.log.WithContext(ctx).Debug("Drop rejected", "funnel_id", key.funnelID, "path", action.Path)
	}
	if changed {
		sess.autosaver.Schedule()
	}
	if res.Changed {
		s.notifier.HistoryChanged(key.funnelID, key.userID, snap)
	}
	return snap, nil
}

func actionOutcome(res editor.Result) string {
	switch {
	case res.Rejected:
		return "rejected"
	case res.Changed:
		return "changed"
	default:
		return "noop"
	}
}

func (s *editorService) Drop(ctx context.Context, funnelID uuid.UUID, payload dropzone.Payload, target layout.Path) (*EditorSnapshot, error) {
	return s.Dispatch(ctx, funnelID, editor.Action{Type: editor.ActionDrop, Path: target, Payload: &payload})
}

func (s *editorService) Save(ctx context.Context, funnelID uuid.UUID, published *bool) (*EditorSnapshot, error) {
	if published != nil {
		if _, err := s.Dispatch(ctx, funnelID, editor.Action{Type: editor.ActionSetPublished, Published: published}); err != nil {
			return nil, err
		}
	}
	key, err := s.keyFor(ctx, funnelID)
	if err != nil {
		return nil, err
	}
	sess, err := s.lockLive(ctx, key)
	if err != nil {
		return nil, err
	}
	sess.mu.Unlock()
	if err := sess.autosaver.Flush(ctx); err != nil {
		if ae, ok := apierr.As(err); ok {
			return nil, ae
		}
		return nil, apierr.New(http.StatusBadGateway, "save_failed", fmt.Errorf("save layout: %w", err))
	}
	return sess.snapshot(s.now(), nil), nil
}

func (s *editorService) Close(ctx context.Context, funnelID uuid.UUID) error {
	key, err := s.keyFor(ctx, funnelID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	sess := s.sessions[key]
	if sess != nil {
		s.detachLocked(sess)
	}
	s.metrics.SetEditorSessions(len(s.sessions))
	s.mu.Unlock()
	if sess == nil {
		return nil
	}
	err = s.retire(ctx, sess)
	s.notifier.SessionClosed(key.funnelID, key.userID)
	return err
}

// retire saves any unsaved edits and stops the session's timer. Edits that
// reached the session before it was marked retired are part of the flush.
func (s *editorService) retire(ctx context.Context, sess *editorSession) error {
	sess.mu.Lock()
	sess.retired = true
	sess.mu.Unlock()

	err := sess.autosaver.Flush(ctx)
	sess.autosaver.Stop()

	s.mu.Lock()
	if s.retiring[sess.key] == sess {
		delete(s.retiring, sess.key)
	}
	s.mu.Unlock()
	close(sess.done)

	if err != nil {
		return fmt.Errorf("flush editor session %s: %w", sess.key, err)
	}
	return nil
}

// StartJanitor evicts idle sessions until ctx is done.
func (s *editorService) StartJanitor(ctx context.Context) {
	interval := s.cfg.IdleTTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.EvictIdle(s.now()); n > 0 {
					s.log.Info("Evicted idle editor sessions", "count", n)
				}
			}
		}
	}()
}

func (s *editorService) EvictIdle(now time.Time) int {
	var idle []*editorSession
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		expired := now.Sub(sess.lastUsed) >= s.cfg.IdleTTL
		sess.mu.Unlock()
		if expired {
			idle = append(idle, sess)
			s.detachLocked(sess)
		}
	}
	s.metrics.SetEditorSessions(len(s.sessions))
	s.mu.Unlock()

	for _, sess := range idle {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
		if err := s.retire(ctx, sess); err != nil {
			s.log.Warn("Idle session flush failed", "funnel_id", sess.key.funnelID, "error", err)
		}
		cancel()
		s.notifier.SessionClosed(sess.key.funnelID, sess.key.userID)
	}
	return len(idle)
}

// Shutdown flushes every open session in parallel. One failed flush does not
// cut the others short; all failures are returned together.
func (s *editorService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	all := make([]*editorSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
		s.detachLocked(sess)
	}
	s.metrics.SetEditorSessions(len(s.sessions))
	s.mu.Unlock()

	var g errgroup.Group
	errs := make([]error, len(all))
	for i, sess := range all {
		i, sess := i, sess
		g.Go(func() error {
			errs[i] = s.retire(ctx, sess)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// pending is the autosave source: the current document when it has edits
// that were not saved yet.
func (sess *editorSession) pending() (editor.Snapshot, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Revision == sess.savedRevision {
		return editor.Snapshot{}, false
	}
	return editor.Snapshot{
		Document:  sess.state.Document,
		Published: sess.state.Published,
		Revision:  sess.state.Revision,
	}, true
}

func (sess *editorSession) snapshot(now time.Time, res *editor.Result) *EditorSnapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(now, res)
}

func (sess *editorSession) snapshotLocked(now time.Time, res *editor.Result) *EditorSnapshot {
	sess.lastUsed = now
	return &EditorSnapshot{
		FunnelID:      sess.key.funnelID,
		View:          sess.state.View(),
		IsSaving:      sess.saving,
		Dirty:         sess.state.Revision != sess.savedRevision,
		LastSaveError: sess.lastSaveErr,
		LastSavedAt:   sess.lastSavedAt,
		Result:        res,
	}
}
