package observability

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const namespace = "fb"

// Metrics is nil when METRICS_ENABLED is off; every method is nil-safe.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	apiErrors   prometheus.Counter

	editorActions  *prometheus.CounterVec
	editorSessions prometheus.Gauge
	saves          *prometheus.CounterVec
	saveLatency    *prometheus.HistogramVec
	sseClients     prometheus.Gauge

	dbPool    *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, time.Second)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// NewMetrics registers the collectors on a private registry so tests can
// build as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	routeLabels := []string{"method", "route", "status"}

	return &Metrics{
		registry: reg,
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),

		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests by method, route and status.",
		}, routeLabels),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, routeLabels),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "In-flight API requests.",
		}),
		apiErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_server_errors_total",
			Help:      "API responses with a 5xx status.",
		}),

		editorActions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editor_actions_total",
			Help:      "Editor actions by type and outcome.",
		}, []string{"type", "outcome"}),
		editorSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "editor_sessions_open",
			Help:      "Open editor sessions.",
		}),
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_saves_total",
			Help:      "Layout saves by status.",
		}, []string{"status"}),
		saveLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_save_duration_seconds",
			Help:      "Layout save latency in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"status"}),
		sseClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse_clients",
			Help:      "Connected SSE clients.",
		}),

		dbPool: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool",
			Help:      "Database pool statistics.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_up",
			Help:      "1 when the last Redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redis_ping_seconds",
			Help:      "Latency of the last Redis ping.",
		}),
	}
}

// StartServer exposes the registry on a dedicated listener until ctx ends.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	m.handler.ServeHTTP(w, r)
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
	if status >= 500 {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObserveEditorAction counts one dispatched action. outcome is "changed",
// "noop", "rejected" or "error".
func (m *Metrics) ObserveEditorAction(actionType, outcome string) {
	if m != nil {
		m.editorActions.WithLabelValues(actionType, outcome).Inc()
	}
}

func (m *Metrics) SetEditorSessions(n int) {
	if m != nil {
		m.editorSessions.Set(float64(n))
	}
}

func (m *Metrics) ObserveSave(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(status).Inc()
	m.saveLatency.WithLabelValues(status).Observe(dur.Seconds())
}

func (m *Metrics) SSEClientConnected() {
	if m != nil {
		m.sseClients.Inc()
	}
}

func (m *Metrics) SSEClientDisconnected() {
	if m != nil {
		m.sseClients.Dec()
	}
}

// every runs fn on the scrape interval until ctx ends.
func every(ctx context.Context, fn func()) {
	ticker := time.NewTicker(scrapeInterval())
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		m.recordDBStats(sqlDB.Stats())
	})
}

func (m *Metrics) recordDBStats(stats sql.DBStats) {
	m.dbPool.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
	m.dbPool.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbPool.WithLabelValues("idle").Set(float64(stats.Idle))
	m.dbPool.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
	m.dbPool.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	every(ctx, func() {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			if log != nil {
				log.Warn("metrics: redis ping failed", "error", err)
			}
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(start).Seconds())
	})
}
