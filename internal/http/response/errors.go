package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/platform/apierr"
)

// RespondServiceError maps an error returned by a service to the error
// envelope. *apierr.Error carries its own status and code; anything else is
// a 500.
func RespondServiceError(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = "error"
		}
		RespondError(c, status, code, ae)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		RespondError(c, http.StatusServiceUnavailable, "request_cancelled", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
