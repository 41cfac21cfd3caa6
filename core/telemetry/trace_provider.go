package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation name of litbridge spans.
const TracerName = "github.com/anoideaopen/litbridge"

// CollectorEndpoint describes an OTLP/HTTP trace collector.
type CollectorEndpoint struct {
	Endpoint string // host:port of the collector. Empty disables export.
	CACerts  string // Base64-encoded PEM CA certificates. Empty means plain HTTP.
}

// InstallTraceProvider installs the global trace provider and propagator.
// Without an endpoint a no-op provider is installed. The returned function flushes
// and stops the provider.
func InstallTraceProvider(settings *CollectorEndpoint, serviceName string) (func(context.Context) error, error) {
	var tracerProvider trace.TracerProvider = noop.NewTracerProvider()
	shutdown := func(context.Context) error { return nil }

	defer func() {
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}()

	if settings == nil || len(settings.Endpoint) == 0 {
		return shutdown, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(settings.Endpoint)}
	if settings.CACerts == "" {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsConfig, err := getTLSConfig(settings.CACerts)
		if err != nil {
			return shutdown, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsConfig))
	}

	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	if err != nil {
		return shutdown, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return shutdown, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r))
	tracerProvider = provider

	return provider.Shutdown, nil
}
