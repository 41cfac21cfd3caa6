package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Inject packs the trace context of ctx into a string map suitable for a message header.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	if len(carrier) == 0 {
		return nil
	}

	return carrier
}

// Extract returns ctx carrying the trace context packed by Inject.
func Extract(ctx context.Context, header map[string]string) context.Context {
	if len(header) == 0 {
		return ctx
	}

	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(header))
}

// PackToMetadata converts a carrier into gRPC metadata pairs.
func PackToMetadata(header map[string]string) []string {
	pairs := make([]string, 0, len(header)*2)
	for k, v := range header {
		pairs = append(pairs, k, v)
	}

	return pairs
}

// UnpackMetadata converts gRPC metadata into a carrier, keeping the first value of each key.
func UnpackMetadata(md map[string][]string) map[string]string {
	header := make(map[string]string, len(md))
	for k, v := range md {
		if len(v) > 0 {
			header[k] = v[0]
		}
	}

	return header
}
