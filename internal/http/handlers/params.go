package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
)

// funnelIDParam parses :id, writing a 400 and returning false when malformed.
func funnelIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_funnel_id", fmt.Errorf("invalid funnel id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
