// Package telemetry wires OpenTelemetry tracing around BookRegistry
// dispatch, mirroring the marketfeeds otel setup: a stdout span exporter
// batched through an SDK TracerProvider, with no external collector
// dependency for a single-process replay engine.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/orbitcex/itchbook"

// Setup installs a stdout-exporting TracerProvider as the global provider
// and returns a shutdown func the caller must run before exit to flush
// pending spans.
func Setup(prettyPrint bool) (shutdown func(context.Context) error, err error) {
	var opts []stdouttrace.Option
	if prettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(0)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Tracer returns the engine-wide tracer. Call after Setup.
func Tracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}
