package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
	"github.com/yungbote/funnel-builder-backend/internal/services"
)

type MediaHandler struct {
	media services.MediaService
}

func NewMediaHandler(media services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// GET /api/media
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.media.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	images := make([]string, 0, len(items))
	for _, it := range items {
		images = append(images, it.URL)
	}
	response.RespondOK(c, gin.H{"images": images, "items": items})
}

// POST /api/media (multipart, field "file")
func (h *MediaHandler) Upload(c *gin.Context) {
	// Room for the multipart envelope on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxMediaUploadBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "file_required", errors.New("no file uploaded"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "upload_failed", err)
		return
	}
	defer f.Close()

	item, err := h.media.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"url": item.URL, "item": item})
}
