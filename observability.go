package kuzu

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names and attribute keys.
const (
	SpanPrepare = "kuzu.prepare"
	SpanExecute = "kuzu.execute"
	SpanQuery   = "kuzu.query"

	AttrDBSystem    = "db.system"
	AttrDBStatement = "db.statement"
	AttrParamCount  = "kuzu.param_count"
	AttrErrorType   = "error.type"
)

const instrumentationName = "github.com/semihalev/go-kuzu"

func defaultTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(instrumentationName)
}

func defaultLogger() *slog.Logger {
	return slog.Default().With(slog.String("component", "kuzu"))
}

func startSpan(ctx context.Context, tracer trace.Tracer, name, query string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String(AttrDBSystem, "kuzu"),
		attribute.String(AttrDBStatement, query),
	)
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kerr, ok := err.(*Error); ok {
			span.SetAttributes(attribute.String(AttrErrorType, kerr.Type.String()))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// logContext adds trace correlation to logger when ctx carries a span.
func logContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}
