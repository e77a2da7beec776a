package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/data/repos/funnels"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type FunnelRepo = funnels.FunnelRepo

func NewFunnelRepo(db *gorm.DB, log *logger.Logger) FunnelRepo {
	return funnels.NewFunnelRepo(db, log)
}
