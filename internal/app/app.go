package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/data/db"
	"github.com/yungbote/funnel-builder-backend/internal/http"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/observability"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/realtime"
	"github.com/yungbote/funnel-builder-backend/internal/realtime/bus"
)

const serviceName = "funnel-builder"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Bus      bus.Bus
	Metrics  *observability.Metrics

	dbService    *db.Service
	media        mediaProvider
	server       *http.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	layout.LoadCatalog(log)

	dbService, err := db.NewService(log, db.ConfigFromEnv())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	ssehub := realtime.NewSSEHub(log)

	var eventBus bus.Bus
	switch b, err := bus.NewRedisBus(log, bus.RedisConfigFromEnv()); {
	case err == nil:
		eventBus = b
	case errors.Is(err, bus.ErrNotConfigured):
		log.Info("Redis not configured; editor events stay on this instance")
	default:
		log.Warn("Redis bus unavailable; editor events stay on this instance", "error", err)
	}

	media, err := resolveMediaProvider(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, ssehub, eventBus, media, metrics)
	if err != nil {
		_ = media.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset, ssehub, metrics)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware, media, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       ssehub,
		Bus:          eventBus,
		Metrics:      metrics,
		dbService:    dbService,
		media:        media,
		server:       &http.Server{Engine: router},
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// Fan bus traffic into the local hub so any instance can serve a stream.
	if a.Bus != nil {
		if err := a.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			a.Log.Warn("Redis forwarder failed to start", "error", err)
		}
	}

	a.Services.Editor.StartJanitor(ctx)

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, bus.RedisClient(a.Bus))
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.server.Run(addr)
}

// Close stops accepting requests, flushes open editor sessions and releases
// every backing resource.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.Log.Warn("HTTP shutdown failed", "error", err)
	}
	if a.Services.Editor != nil {
		if err := a.Services.Editor.Shutdown(ctx); err != nil {
			a.Log.Error("Editor sessions failed to flush", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	var g errgroup.Group
	if a.Bus != nil {
		g.Go(a.Bus.Close)
	}
	g.Go(a.media.Close)
	if a.dbService != nil {
		g.Go(a.dbService.Close)
	}
	if a.otelShutdown != nil {
		g.Go(func() error { return a.otelShutdown(ctx) })
	}
	if err := g.Wait(); err != nil {
		a.Log.Warn("Shutdown finished with errors", "error", err)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
