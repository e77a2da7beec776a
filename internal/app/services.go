package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/realtime"
	"github.com/yungbote/funnel-builder-backend/internal/realtime/bus"
	"github.com/yungbote/funnel-builder-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	Funnel services.FunnelService
	Editor services.EditorService
	Media  services.MediaService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *realtime.SSEHub, eventBus bus.Bus, media mediaProvider, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, services.AuthConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	funnels := services.NewFunnelService(db, log, reposet.Funnel)
	notifier := services.NewEditorNotifier(log, hub, eventBus)
	editorSvc := services.NewEditorService(log, services.EditorConfig{
		AutosaveDelay: cfg.AutosaveDelay,
		HistoryLimit:  cfg.HistoryLimit,
		IdleTTL:       cfg.SessionIdleTTL,
	}, funnels, notifier, metrics)

	return Services{
		Auth:   auth,
		Funnel: funnels,
		Editor: editorSvc,
		Media:  services.NewMediaService(log, media.store),
	}, nil
}
