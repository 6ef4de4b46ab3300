package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/config"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

// Setup installs a global tracer provider exporting to w when enabled.
// The returned shutdown flushes pending spans and is always non-nil.
func Setup(ctx context.Context, app config.AppConfig, cfg config.TelemetryConfig, w io.Writer) (func(context.Context) error, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	noop := func(context.Context) error { return nil }
	logCtx := logging.WithComponent(ctx, "bootstrap.telemetry")
	if !cfg.Enabled {
		logging.Info(logCtx, "tracing disabled")
		return noop, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, errs.Wrap(err, "create stdout trace exporter")
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", app.Name),
		attribute.String("deployment.environment", app.Env),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logging.Info(logCtx, "tracing enabled", slog.String("exporter", "stdout"))
	return tp.Shutdown, nil
}

// Start opens a span and carries its ids on the logging context.
func Start(ctx context.Context, tracerName string, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
	sc := span.SpanContext()
	if sc.IsValid() {
		ctx = logging.WithTelemetry(ctx, sc.TraceID().String(), sc.SpanID().String())
	}
	return ctx, span
}

// End records err on span before ending it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(errs.KindOf(err))))
	}
	span.End()
}
