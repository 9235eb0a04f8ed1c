// Package observability wires structured logging for the bridge. Logs always
// go to stdout; when OTLP export is enabled they are additionally shipped to
// a collector with trace correlation attributes attached.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// OTLPConfig controls log export to an OpenTelemetry collector.
type OTLPConfig struct {
	Enabled  bool
	Protocol string // grpc, http, or stdout
}

// Instrument installs the process-wide slog default. The returned shutdown
// function flushes buffered log export and must be called before exit; it is
// a no-op when OTLP export is disabled.
func Instrument(ctx context.Context, level slog.Level, logFormat string, otlp OTLPConfig) (func(context.Context) error, error) {
	noopShutdown := func(context.Context) error { return nil }

	stdoutHandler, err := newStdoutHandler(level, logFormat)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler = newTraceContextHandler(stdoutHandler)
	shutdown := noopShutdown

	if otlp.Enabled {
		exporter, err := newLogExporter(ctx, otlp.Protocol)
		if err != nil {
			return nil, fmt.Errorf("create log exporter: %w", err)
		}

		// Batch before the severity filter so dropped records never buffer
		processor := minsev.NewLogProcessor(
			sdklog.NewBatchProcessor(exporter),
			toMinsevSeverity(level),
		)
		provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))
		shutdown = provider.Shutdown

		otelHandler := otelslog.NewHandler("responsum", otelslog.WithLoggerProvider(provider))
		handler = newFanoutHandler(handler, otelHandler)
	}

	slog.SetDefault(slog.New(handler))

	return shutdown, nil
}

// newStdoutHandler creates a handler for human-readable logs.
func newStdoutHandler(level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

// newLogExporter creates the OTLP log exporter for the configured protocol.
// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* environment
// variables read by the exporter packages.
func newLogExporter(ctx context.Context, protocol string) (sdklog.Exporter, error) {
	switch strings.ToLower(protocol) {
	case "grpc":
		return otlploggrpc.New(ctx)
	case "http":
		return otlploghttp.New(ctx)
	case "stdout":
		return stdoutlog.New()
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q (expected: grpc, http, stdout)", protocol)
	}
}

// toMinsevSeverity maps an slog level onto the OpenTelemetry severity scale
// for the minimum-severity export filter.
func toMinsevSeverity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
