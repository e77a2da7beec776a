package app

import (
	"strings"
	"time"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const (
	MediaStorageLocal = "local"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	AutosaveDelay  time.Duration
	HistoryLimit   int
	SessionIdleTTL time.Duration

	// MediaStorageMode is "local" or one of the GCS modes understood by
	// platform/gcp ("gcs", "gcs_emulator").
	MediaStorageMode    string
	MediaDir            string
	StorageEmulatorHost string

	AllowedOrigins []string

	MetricsAddr string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", ""),

		JWTSecret:   envutil.String("AUTH_JWT_SECRET", ""),
		JWTIssuer:   envutil.String("AUTH_JWT_ISSUER", ""),
		JWTAudience: envutil.String("AUTH_JWT_AUDIENCE", ""),

		AutosaveDelay:  envutil.Duration("BUILDER_AUTOSAVE_DELAY_MS", 2*time.Second, time.Millisecond),
		HistoryLimit:   envutil.Int("BUILDER_HISTORY_LIMIT", 0),
		SessionIdleTTL: envutil.Duration("BUILDER_SESSION_IDLE_TTL", 30*time.Minute, time.Second),

		MediaStorageMode:    strings.ToLower(envutil.String("MEDIA_STORAGE_MODE", MediaStorageLocal)),
		MediaDir:            envutil.String("MEDIA_DIR", "public/media"),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		MetricsAddr: envutil.String("METRICS_ADDR", ""),
	}
	if cfg.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is not set; every protected request will be rejected")
	}
	return cfg
}
