// Package observability provides logging, tracing and trace-context
// propagation for reqtrace.
//
// # Logging
//
// The Logger interface provides structured logging backed by zap:
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Request and response captures are emitted as typed events so every line
// carries the same shape:
//
//	observability.EmitEvent(ctx, logger, zapcore.InfoLevel,
//	    observability.RequestEvent{Body: body})
//
// # Tracing
//
// NewTracer builds an OpenTelemetry tracer provider with an OTLP gRPC
// exporter. The provider is passed explicitly to the middleware; nothing is
// registered globally.
//
//	tracer, err := observability.NewTracer(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(ctx)
//
// # Propagation
//
// Propagator wraps a text-map format (W3C, B3, Jaeger, baggage) and moves
// trace context in and out of http.Header.
package observability
