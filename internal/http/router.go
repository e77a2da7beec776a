package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/funnel-builder-backend/internal/http/handlers"
	httpMW "github.com/yungbote/funnel-builder-backend/internal/http/middleware"
	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	// MediaDir is served under /media when the local media store is in use.
	MediaDir string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	FunnelHandler     *httpH.FunnelHandler
	EditorHandler     *httpH.EditorHandler
	RealtimeHandler   *httpH.RealtimeHandler
	MediaHandler      *httpH.MediaHandler
	BlockKindsHandler *httpH.BlockKindsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.ReadyCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}
	if cfg.MediaDir != "" {
		r.Static("/media", cfg.MediaDir)
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Funnels
		if cfg.FunnelHandler != nil {
			protected.GET("/funnels", cfg.FunnelHandler.List)
			protected.POST("/funnels", cfg.FunnelHandler.Create)
			protected.GET("/funnels/:id", cfg.FunnelHandler.Get)
			protected.PUT("/funnels/:id", cfg.FunnelHandler.Update)
			protected.DELETE("/funnels/:id", cfg.FunnelHandler.Delete)
		}

		// Editor sessions
		if cfg.EditorHandler != nil {
			protected.POST("/funnels/:id/editor", cfg.EditorHandler.Open)
			protected.GET("/funnels/:id/editor", cfg.EditorHandler.Get)
			protected.DELETE("/funnels/:id/editor", cfg.EditorHandler.Close)
			protected.POST("/funnels/:id/editor/actions", cfg.EditorHandler.Dispatch)
			protected.POST("/funnels/:id/editor/drop", cfg.EditorHandler.Drop)
			protected.POST("/funnels/:id/editor/undo", cfg.EditorHandler.Undo)
			protected.POST("/funnels/:id/editor/redo", cfg.EditorHandler.Redo)
			protected.POST("/funnels/:id/editor/save", cfg.EditorHandler.Save)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/funnels/:id/editor/events", cfg.RealtimeHandler.EditorEvents)
		}

		// Media library
		if cfg.MediaHandler != nil {
			protected.GET("/media", cfg.MediaHandler.List)
			protected.POST("/media", cfg.MediaHandler.Upload)
		}

		if cfg.BlockKindsHandler != nil {
			protected.GET("/block-kinds", cfg.BlockKindsHandler.List)
		}
	}

	return r
}
