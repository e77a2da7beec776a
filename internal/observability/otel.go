package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/funnel-builder-backend"

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
}

// exportSettings is the OTEL_* environment, read once at init.
type exportSettings struct {
	enabled     bool
	endpoint    string
	insecure    bool
	headers     map[string]string
	sampleRatio float64
}

func exportSettingsFromEnv() exportSettings {
	return exportSettings{
		enabled:     envutil.Bool("OTEL_ENABLED", false),
		endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		headers:     parseHeaders(envutil.List("OTEL_EXPORTER_OTLP_HEADERS", nil)),
		sampleRatio: min(max(envutil.Float("OTEL_SAMPLER_RATIO", 0.1), 0), 1),
	}
}

// parseHeaders turns "k=v" pairs into a map, skipping malformed entries.
func parseHeaders(pairs []string) map[string]string {
	var out map[string]string
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k] = v
	}
	return out
}

var (
	otelOnce     sync.Once
	otelShutdown = func(context.Context) error { return nil }
)

// Tracer returns the process tracer; it is a no-op until InitOTel installs a
// provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitOTel installs the global tracer provider when OTEL_ENABLED is set. The
// returned func flushes and stops it.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		settings := exportSettingsFromEnv()
		if !settings.enabled {
			return
		}
		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = "funnel-builder"
		}

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil && log != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.sampleRatio))),
		}
		exporter, err := settings.exporter(ctx)
		switch {
		case err != nil && log != nil:
			log.Warn("otel exporter init failed (continuing)", "error", err)
		case exporter != nil:
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		otelShutdown = tp.Shutdown
		if log != nil {
			log.Info("otel tracing initialized", "service", name, "endpoint", settings.endpoint, "sample_ratio", settings.sampleRatio)
		}
	})
	return otelShutdown
}

// exporter sends spans over OTLP/HTTP, or pretty-prints them to stdout when
// no endpoint is configured.
func (s exportSettings) exporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if s.endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(s.endpoint)}
	if s.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(s.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(s.headers))
	}
	return otlptracehttp.New(ctx, opts...)
}
