package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/data/repos"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type Repos struct {
	Funnel repos.FunnelRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Funnel: repos.NewFunnelRepo(db, log),
	}
}
