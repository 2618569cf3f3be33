package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Goden-Gun/diary-client/pkg/config"
)

// ShutdownFunc 关闭函数类型
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing 初始化 OpenTelemetry，exporter 为 disabled 时只返回空 shutdown
// 请求 span 由 pkg/tracing 创建，这里只负责 provider 和 propagator
func InitTracing(ctx context.Context, cfg config.TracingConfig) (ShutdownFunc, error) {
	cfg.ApplyDefaults()
	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		return noopShutdown, nil
	}

	res, err := newTraceResource(cfg)
	if err != nil {
		_ = exporter.Shutdown(ctx)
		return nil, err
	}

	ratio := cfg.SampleRatio
	if ratio > 1 {
		ratio = 1
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(provider)
	// 与后端约定 W3C traceparent
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.WithFields(log.Fields{"exporter": cfg.Exporter, "service": cfg.ServiceName}).Debug("tracing initialized")
	return provider.Shutdown, nil
}

// newSpanExporter 返回 nil 表示关闭追踪
func newSpanExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case "", "disabled", "none":
		return nil, nil
	case "stdout":
		// stdout 保留给命令输出，span 写到 stderr
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	case "otlp", "otlp-grpc":
		var opts []otlptracegrpc.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", cfg.Exporter)
	}
}

func newTraceResource(cfg config.TracingConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if env := config.GetEnv(); env != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(env))
	}
	for k, v := range cfg.ResourceTags {
		attrs = append(attrs, attribute.String(k, v))
	}
	// 无 schema 的资源才能与 SDK 默认资源合并，避免 semconv 版本冲突
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}
