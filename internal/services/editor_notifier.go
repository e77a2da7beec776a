package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/realtime"
	"github.com/yungbote/funnel-builder-backend/internal/realtime/bus"
)

type EditorNotifier interface {
	HistoryChanged(funnelID, userID uuid.UUID, snap *EditorSnapshot)
	SaveStarted(funnelID, userID uuid.UUID, revision uint64)
	LayoutSaved(funnelID, userID uuid.UUID, revision uint64)
	LayoutSaveFailed(funnelID, userID uuid.UUID, revision uint64, errorMessage string)
	SessionClosed(funnelID, userID uuid.UUID)
}

type editorNotifier struct {
	log *logger.Logger
	hub *realtime.SSEHub
	bus bus.Bus
}

// NewEditorNotifier publishes through b when set, and straight into hub
// otherwise. With a bus, the forwarder started by the app delivers into hub.
func NewEditorNotifier(log *logger.Logger, hub *realtime.SSEHub, b bus.Bus) EditorNotifier {
	return &editorNotifier{
		log: log.With("service", "EditorNotifier"),
		hub: hub,
		bus: b,
	}
}

func (n *editorNotifier) HistoryChanged(funnelID, userID uuid.UUID, snap *EditorSnapshot) {
	n.emit(funnelID, userID, realtime.SSEEventHistoryChanged, map[string]any{"snapshot": snap})
}

func (n *editorNotifier) SaveStarted(funnelID, userID uuid.UUID, revision uint64) {
	n.emit(funnelID, userID, realtime.SSEEventSaveStarted, map[string]any{
		"funnel_id": funnelID,
		"revision":  revision,
	})
}

func (n *editorNotifier) LayoutSaved(funnelID, userID uuid.UUID, revision uint64) {
	n.emit(funnelID, userID, realtime.SSEEventLayoutSaved, map[string]any{
		"funnel_id": funnelID,
		"revision":  revision,
		"saved_at":  time.Now().UTC(),
	})
}

func (n *editorNotifier) LayoutSaveFailed(funnelID, userID uuid.UUID, revision uint64, errorMessage string) {
	n.emit(funnelID, userID, realtime.SSEEventLayoutSaveFailed, map[string]any{
		"funnel_id": funnelID,
		"revision":  revision,
		"error":     errorMessage,
	})
}

func (n *editorNotifier) SessionClosed(funnelID, userID uuid.UUID) {
	n.emit(funnelID, userID, realtime.SSEEventSessionClosed, map[string]any{"funnel_id": funnelID})
}

func (n *editorNotifier) emit(funnelID, userID uuid.UUID, event realtime.SSEEvent, data any) {
	msg := realtime.SSEMessage{
		Channel: realtime.EditorChannel(funnelID, userID),
		Event:   event,
		Data:    data,
	}
	if n.bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := n.bus.Publish(ctx, msg)
		cancel()
		if err == nil {
			return
		}
		n.log.Warn("editor event publish failed; delivering locally", "event", event, "error", err)
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}

type nopEditorNotifier struct{}

func (nopEditorNotifier) HistoryChanged(uuid.UUID, uuid.UUID, *EditorSnapshot)  {}
func (nopEditorNotifier) SaveStarted(uuid.UUID, uuid.UUID, uint64)              {}
func (nopEditorNotifier) LayoutSaved(uuid.UUID, uuid.UUID, uint64)              {}
func (nopEditorNotifier) LayoutSaveFailed(uuid.UUID, uuid.UUID, uint64, string) {}
func (nopEditorNotifier) SessionClosed(uuid.UUID, uuid.UUID)                    {}
