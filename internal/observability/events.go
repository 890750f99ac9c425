package observability

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Event messages.
const (
	MessageReceivedRequest = "Received Request"
	MessageSendingResponse = "Sending Response"
)

// Event is a structured log event. The set of implementations is closed:
// RequestEvent, ResponseEvent and GenericEvent.
type Event interface {
	Message() string
	fields() []Field
}

// RequestEvent records the captured inbound request body.
type RequestEvent struct {
	Body string
}

// Message returns the event message.
func (RequestEvent) Message() string { return MessageReceivedRequest }

func (e RequestEvent) fields() []Field {
	return []Field{String("request_body", e.Body)}
}

// ResponseEvent records the captured outbound response body.
type ResponseEvent struct {
	Body string
}

// Message returns the event message.
func (ResponseEvent) Message() string { return MessageSendingResponse }

func (e ResponseEvent) fields() []Field {
	return []Field{String("response_body", e.Body)}
}

// GenericEvent carries a free-form message with string fields.
type GenericEvent struct {
	Msg    string
	Fields map[string]string
}

// Message returns the event message.
func (e GenericEvent) Message() string { return e.Msg }

func (e GenericEvent) fields() []Field {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, String(k, e.Fields[k]))
	}
	return fields
}

// EmitEvent logs ev at level, correlated with the span on ctx. trace_id and
// span_id are always present; they are all zeros when ctx carries no span.
func EmitEvent(ctx context.Context, logger Logger, level zapcore.Level, ev Event) {
	if logger == nil || ev == nil || !logger.Enabled(level) {
		return
	}

	sc := trace.SpanContextFromContext(ctx)
	fields := ev.fields()
	fields = append(fields,
		String("trace_id", sc.TraceID().String()),
		String("span_id", sc.SpanID().String()),
	)
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, String("request_id", requestID))
	}

	switch level {
	case zapcore.DebugLevel:
		logger.Debug(ev.Message(), fields...)
	case zapcore.WarnLevel:
		logger.Warn(ev.Message(), fields...)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		logger.Error(ev.Message(), fields...)
	default:
		logger.Info(ev.Message(), fields...)
	}
}
