// Package telemetry configures OpenTelemetry tracing.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

// Options selects the trace exporter.
type Options struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	OTLPInsecure bool
	Stdout       bool
}

// Exporter reports which exporter Setup installed.
type Exporter string

const (
	ExporterNone   Exporter = "none"
	ExporterOTLP   Exporter = "otlp"
	ExporterStdout Exporter = "stdout"
)

// Setup installs a global tracer provider and returns its shutdown function.
// With no OTLP endpoint and Stdout unset, the global noop provider is left in
// place and shutdown is a no-op.
func Setup(ctx context.Context, opts Options, logger *slog.Logger) (func(context.Context) error, Exporter, error) {
	noop := func(context.Context) error { return nil }

	exporter, kind, err := newExporter(ctx, opts)
	if err != nil {
		return nil, ExporterNone, err
	}
	if exporter == nil {
		logger.Info("Tracing disabled")
		return noop, ExporterNone, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, ExporterNone, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("Tracing initialized", "exporter", string(kind), "endpoint", opts.OTLPEndpoint)
	return tp.Shutdown, kind, nil
}

func newExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, Exporter, error) {
	if endpoint := strings.TrimSpace(opts.OTLPEndpoint); endpoint != "" {
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if opts.OTLPInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, ExporterNone, err
		}
		return exp, ExporterOTLP, nil
	}

	if opts.Stdout {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, ExporterNone, err
		}
		return exp, ExporterStdout, nil
	}

	return nil, ExporterNone, nil
}
