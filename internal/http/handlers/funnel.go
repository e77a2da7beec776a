package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
	"github.com/yungbote/funnel-builder-backend/internal/services"
)

type FunnelHandler struct {
	funnels services.FunnelService
}

func NewFunnelHandler(funnels services.FunnelService) *FunnelHandler {
	return &FunnelHandler{funnels: funnels}
}

// GET /api/funnels
func (h *FunnelHandler) List(c *gin.Context) {
	out, err := h.funnels.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"funnels": out})
}

// POST /api/funnels
// body: { "name": "..." }
func (h *FunnelHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	f, err := h.funnels.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"funnel": f})
}

// GET /api/funnels/:id
func (h *FunnelHandler) Get(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	f, err := h.funnels.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"funnel": f})
}

// PUT /api/funnels/:id
// body: { "name"?: "...", "layout"?: [...], "published"?: bool }
func (h *FunnelHandler) Update(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	var req services.FunnelUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	f, err := h.funnels.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"funnel": f})
}

// DELETE /api/funnels/:id
func (h *FunnelHandler) Delete(c *gin.Context) {
	id, ok := funnelIDParam(c)
	if !ok {
		return
	}
	if err := h.funnels.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
