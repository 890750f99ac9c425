package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// DefaultTracerName is the instrumentation scope of the summary spans.
const DefaultTracerName = "github.com/vyrodovalexey/reqtrace/internal/middleware"

// LoggingOption configures the Logging middleware.
type LoggingOption func(*loggingConfig)

type loggingConfig struct {
	tracerProvider   trace.TracerProvider
	propagator       *observability.Propagator
	tracerName       string
	skipPaths        map[string]bool
	credentialHeader string
}

// WithTracerProvider sets the provider used to start summary spans.
// Defaults to a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) LoggingOption {
	return func(c *loggingConfig) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithPropagator sets the trace context propagator. Defaults to W3C Trace Context.
func WithPropagator(p *observability.Propagator) LoggingOption {
	return func(c *loggingConfig) {
		if p != nil {
			c.propagator = p
		}
	}
}

// WithTracerName sets the instrumentation scope name.
func WithTracerName(name string) LoggingOption {
	return func(c *loggingConfig) {
		if name != "" {
			c.tracerName = name
		}
	}
}

// WithSkipPaths lists request paths that bypass tracing and logging.
func WithSkipPaths(paths ...string) LoggingOption {
	return func(c *loggingConfig) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// WithCredentialHeader sets the header whose value is redacted before
// logging. Defaults to Authorization.
func WithCredentialHeader(name string) LoggingOption {
	return func(c *loggingConfig) {
		if name != "" {
			c.credentialHeader = name
		}
	}
}

// Logging returns a middleware that wraps each request in a summary span,
// logs the request and response bodies correlated with that span, records
// request and response headers as span attributes, and propagates the
// trace context back to the caller in the response headers.
//
// The handler's response is buffered until the response side has been
// recorded. Telemetry failures never alter the response.
func Logging(logger observability.Logger, opts ...LoggingOption) func(http.Handler) http.Handler {
	cfg := &loggingConfig{
		tracerProvider:   noop.NewTracerProvider(),
		propagator:       observability.NewPropagator(nil),
		tracerName:       DefaultTracerName,
		skipPaths:        make(map[string]bool),
		credentialHeader: HeaderAuthorization,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	tracer := cfg.tracerProvider.Tracer(cfg.tracerName)
	classifier := NewHeaderClassifier(cfg.credentialHeader)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// Span
			summary := NewRequestSummary(r)
			parent := cfg.propagator.Extract(r.Context(), r.Header)
			ctx, span := tracer.Start(parent, SummarySpanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(summary.Attributes()...),
			)
			defer span.End()

			// Request side
			reqBody, err := CaptureBody(r.Body)
			if err != nil {
				recordBodyFailure(ctx, logger, span, "request", err)
			}
			if r.Body != nil {
				_ = r.Body.Close()
			}
			observability.EmitEvent(ctx, logger, zapcore.InfoLevel, observability.RequestEvent{Body: reqBody.Text()})
			classifier.Annotate(span, r.Header, RequestHeaderPrefix)

			r = r.WithContext(ctx)
			restoreRequestBody(r, reqBody)

			rw := newBufferedResponseWriter(w)
			next.ServeHTTP(rw, r)

			// Response side
			cfg.propagator.Inject(ctx, w.Header())
			status := rw.Status()
			span.SetAttributes(semconv.HTTPResponseStatusCode(status))
			code, description := SpanStatus(status)
			span.SetStatus(code, description)
			classifier.Annotate(span, w.Header(), ResponseHeaderPrefix)

			respBody := NewCapturedBody(rw.body.Bytes())
			observability.EmitEvent(ctx, logger, zapcore.InfoLevel, observability.ResponseEvent{Body: respBody.Text()})

			if _, err := rw.flushTo(respBody); err != nil {
				recordBodyFailure(ctx, logger, span, "response", err)
			}
		})
	}
}

// SpanStatus maps an HTTP status code to a span status.
func SpanStatus(statusCode int) (codes.Code, string) {
	switch {
	case statusCode >= 200 && statusCode <= 399:
		return codes.Ok, ""
	case statusCode >= 400 && statusCode <= 599:
		return codes.Error, StatusDescriptionHTTPError
	default:
		return codes.Error, StatusDescriptionUnknownCode
	}
}

// recordBodyFailure records a body read or write failure as an error-level
// span event and log line.
func recordBodyFailure(ctx context.Context, logger observability.Logger, span trace.Span, kind string, err error) {
	span.AddEvent("body capture failed", trace.WithAttributes(
		attribute.String("level", "ERROR"),
		attribute.String("body.kind", kind),
		semconv.ExceptionMessageKey.String(err.Error()),
	))
	logger.WithContext(ctx).Error("body capture failed",
		observability.String("body_kind", kind),
		observability.Error(err),
	)
}
