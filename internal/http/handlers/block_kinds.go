package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/funnel-builder-backend/internal/http/response"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
)

type BlockKindsHandler struct{}

func NewBlockKindsHandler() *BlockKindsHandler { return &BlockKindsHandler{} }

type blockKindView struct {
	Kind     layout.BlockKind  `json:"kind"`
	Defaults layout.Properties `json:"defaults"`
}

// GET /api/block-kinds
func (h *BlockKindsHandler) List(c *gin.Context) {
	kinds := layout.BlockKinds()
	out := make([]blockKindView, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, blockKindView{Kind: k, Defaults: layout.DefaultsFor(k)})
	}
	response.RespondOK(c, gin.H{
		"blockKinds":      out,
		"sectionDefaults": layout.SectionDefaults(),
	})
}
