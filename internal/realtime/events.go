package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventHistoryChanged   SSEEvent = "history_changed"
	SSEEventSaveStarted      SSEEvent = "save_started"
	SSEEventLayoutSaved      SSEEvent = "layout_saved"
	SSEEventLayoutSaveFailed SSEEvent = "layout_save_failed"
	SSEEventSessionClosed    SSEEvent = "session_closed"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// EditorChannel is the channel carrying one user's editing session of one
// funnel.
func EditorChannel(funnelID, userID uuid.UUID) string {
	return fmt.Sprintf("funnel:%s:%s", funnelID, userID)
}
