package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/tair/batch-inventory/pkg/logger"
)

const DefaultJaegerEndpoint = "http://localhost:14268/api/traces"

// Config describes the exported service and where its spans go.
type Config struct {
	ServiceName string
	Version     string
	Environment string
	Endpoint    string
	// SampleRatio applies to root spans. Values outside (0, 1) sample everything.
	SampleRatio float64
}

func (c Config) endpoint() string {
	if c.Endpoint == "" {
		return DefaultJaegerEndpoint
	}
	return c.Endpoint
}

func (c Config) sampler() sdktrace.Sampler {
	root := sdktrace.AlwaysSample()
	if c.SampleRatio > 0 && c.SampleRatio < 1 {
		root = sdktrace.TraceIDRatioBased(c.SampleRatio)
	}
	return sdktrace.ParentBased(root)
}

func (c Config) resource(ctx context.Context) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(c.Version),
	}
	if c.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(c.Environment))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...), resource.WithHost())
}

// NewProvider builds a provider batching spans to the Jaeger collector.
// It does not touch the otel globals.
func NewProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.endpoint())))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(cfg.sampler()),
	), nil
}

// Propagator carries W3C trace context and baggage across service calls.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// Init builds a provider and installs it, with Propagator, as the otel globals.
func Init(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	tp, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())

	logger.Logger.Info().
		Str("endpoint", cfg.endpoint()).
		Str("sampler", cfg.sampler().Description()).
		Msg("Tracer initialized")
	return tp, nil
}

// Shutdown flushes pending spans and stops tp. A nil provider is a no-op.
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}
