package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the plain trace id next to traceparent so backend
// access logs can be grepped without a W3C parser.
const TraceIDHeader = "X-Trace-ID"

const tracerName = "github.com/Goden-Gun/diary-client"

// InjectHeaders injects tracing context into outgoing HTTP headers using the
// globally installed propagator.
func InjectHeaders(ctx context.Context, h http.Header) http.Header {
	if h == nil {
		h = http.Header{}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
	if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
		h.Set(TraceIDHeader, span.SpanContext().TraceID().String())
	}
	return h
}

// ExtractHeaders extracts tracing context from HTTP headers.
func ExtractHeaders(ctx context.Context, h http.Header) context.Context {
	if h == nil {
		return ctx
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(h))
	if traceID := h.Get(TraceIDHeader); traceID != "" {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("trace.header_id", traceID))
	}
	return ctx
}

// StartRequest opens a client span for one HTTP call to the backend.
func StartRequest(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return Tracer(tracerName).Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
}

// EndRequest records the outcome on span and ends it. kind is the classified
// error kind, empty on success.
func EndRequest(span trace.Span, status int, kind string, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", kind))
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Tracer returns named tracer for client components.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
