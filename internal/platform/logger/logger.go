package logger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
	redact        *redactor
}

// New builds a logger for mode: "prod"/"production" emits JSON, "test" discards
// everything, anything else is the colored development encoder. LOG_LEVEL
// overrides the default debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), redact: envRedactor()}, nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zapcore.DebugLevel))
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar(), redact: envRedactor()}, nil
}

// NewWithCore wraps an arbitrary zap core. Tests use it with an observer core.
func NewWithCore(core zapcore.Core, redactionEnabled bool, hashSalt string) *Logger {
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		redact:        &redactor{enabled: redactionEnabled, salt: hashSalt},
	}
}

func levelFromEnv(def zapcore.Level) zapcore.Level {
	raw := envutil.String("LOG_LEVEL", "")
	if raw == "" {
		return def
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return def
	}
	return lvl
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.SugaredLogger.Debugw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.SugaredLogger.Infow(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.SugaredLogger.Warnw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.SugaredLogger.Errorw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.SugaredLogger.Fatalw(msg, l.redact.kvs(keysAndValues)...)
}

func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(l.redact.kvs(keysAndValues)...),
		redact:        l.redact,
	}
}

// WithContext adds the request id and user id carried by ctx, when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var kv []any
	if rid := ctxutil.RequestID(ctx); rid != "" {
		kv = append(kv, "request_id", rid)
	}
	if uid := ctxutil.UserID(ctx); uid != uuid.Nil {
		kv = append(kv, "user_id", uid.String())
	}
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}
