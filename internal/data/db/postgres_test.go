package db

import (
	"path/filepath"
	"testing"

	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

func TestNewServiceSQLite(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := NewService(log, Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if !svc.DB().Migrator().HasTable("funnel") {
		t.Fatalf("funnel table missing after migration")
	}
}

func TestNewServiceRejectsUnknownDriver(t *testing.T) {
	log, _ := logger.New("test")
	if _, err := NewService(log, Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	cfg := ConfigFromEnv()
	if cfg.Driver != DriverSQLite || cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("ConfigFromEnv: got=%+v", cfg)
	}
}
