package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/http"
	httpH "github.com/yungbote/funnel-builder-backend/internal/http/handlers"
	httpMW "github.com/yungbote/funnel-builder-backend/internal/http/middleware"
	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Funnel     *httpH.FunnelHandler
	Editor     *httpH.EditorHandler
	Realtime   *httpH.RealtimeHandler
	Media      *httpH.MediaHandler
	BlockKinds *httpH.BlockKindsHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, sseHub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(dbPinger(db)),
		Funnel:     httpH.NewFunnelHandler(services.Funnel),
		Editor:     httpH.NewEditorHandler(services.Editor),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub, metrics),
		Media:      httpH.NewMediaHandler(services.Media),
		BlockKinds: httpH.NewBlockKindsHandler(),
	}
}

func dbPinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, media mediaProvider, metrics *observability.Metrics) *gin.Engine {
	mediaDir := ""
	if media.local != nil {
		mediaDir = media.local.Dir()
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		MediaDir:          mediaDir,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		FunnelHandler:     handlers.Funnel,
		EditorHandler:     handlers.Editor,
		RealtimeHandler:   handlers.Realtime,
		MediaHandler:      handlers.Media,
		BlockKindsHandler: handlers.BlockKinds,
	})
}
