package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/dropzone"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/editor"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/services"
)

type EditorHandler struct {
	editor services.EditorService
}

func NewEditorHandler(editor services.EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

func (h *EditorHandler) respond(c *gin.Context, snap *services.EditorSnapshot, err error) {
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"editor": snap})
}

// POST /api/funnels/:id/editor
func (h *EditorHandler) Open(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	snap, err := h.editor.Open(c.Request.Context(), id)
	h.respond(c, snap, err)
}

// GET /api/funnels/:id/editor
func (h *EditorHandler) Get(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	snap, err := h.editor.Snapshot(c.Request.Context(), id)
	h.respond(c, snap, err)
}

// POST /api/funnels/:id/editor/actions
// body: an editor action, e.g. { "type": "add-block", "path": {...}, "blockKind": "heading" }
func (h *EditorHandler) Dispatch(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	var action editor.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_action", err)
		return
	}
	snap, err := h.editor.Dispatch(c.Request.Context(), id, action)
	h.respondDispatch(c, snap, err)
}

// POST /api/funnels/:id/editor/drop
// body: { "payload": { "kind": "heading" }, "target": { "sectionId": ..., ... } }
func (h *EditorHandler) Drop(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Payload *dropzone.Payload `json:"payload"`
		Target  layout.Path       `json:"target"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Payload == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("payload is required"))
		return
	}
	snap, err := h.editor.Drop(c.Request.Context(), id, *req.Payload, req.Target)
	h.respondDispatch(c, snap, err)
}

// respondDispatch answers 422 for a drop the resolver refused; the session
// is unchanged in that case.
func (h *EditorHandler) respondDispatch(c *gin.Context, snap *services.EditorSnapshot, err error) {
	if err == nil && snap != nil && snap.Result != nil && snap.Result.Rejected {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  response.APIError{Message: "drop not allowed on this target", Code: "invalid_drop"},
			"editor": snap,
		})
		return
	}
	h.respond(c, snap, err)
}

// POST /api/funnels/:id/editor/undo
func (h *EditorHandler) Undo(c *gin.Context) {
	h.history(c, editor.ActionUndo)
}

// POST /api/funnels/:id/editor/redo
func (h *EditorHandler) Redo(c *gin.Context) {
	h.history(c, editor.ActionRedo)
}

func (h *EditorHandler) history(c *gin.Context, t editor.ActionType) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	snap, err := h.editor.Dispatch(c.Request.Context(), id, editor.Action{Type: t})
	h.respond(c, snap, err)
}

// POST /api/funnels/:id/editor/save
// body (optional): { "published": bool }
func (h *EditorHandler) Save(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Published *bool `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := h.editor.Save(c.Request.Context(), id, req.Published)
	h.respond(c, snap, err)
}

// DELETE /api/funnels/:id/editor
func (h *EditorHandler) Close(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	if err := h.editor.Close(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
