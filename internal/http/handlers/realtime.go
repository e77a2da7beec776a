package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/realtime"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		metrics: metrics,
	}
}

// GET /api/funnels/:id/editor/events
// Streams the caller's editor channel for one funnel until the client goes
// away. Several tabs may stream the same channel.
func (h *RealtimeHandler) EditorEvents(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("unauthorized"))
		return
	}
	funnelID, ok := funnelIDParam(c)
	if !ok {
		return
	}

	client := h.hub.NewSSEClient(userID)
	channel := realtime.EditorChannel(funnelID, userID)
	h.hub.AddChannel(client, channel)
	h.metrics.SSEClientConnected()
	h.log.Debug("Editor event stream open", "funnel_id", funnelID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.metrics.SSEClientDisconnected()
}
