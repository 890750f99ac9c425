package observability

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestEmitEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		event      Event
		wantMsg    string
		wantFields map[string]interface{}
	}{
		{
			name:    "request event",
			event:   RequestEvent{Body: `{"a":1}`},
			wantMsg: MessageReceivedRequest,
			wantFields: map[string]interface{}{
				"request_body": `{"a":1}`,
			},
		},
		{
			name:    "response event",
			event:   ResponseEvent{Body: "ok"},
			wantMsg: MessageSendingResponse,
			wantFields: map[string]interface{}{
				"response_body": "ok",
			},
		},
		{
			name: "generic event",
			event: GenericEvent{
				Msg:    "cache miss",
				Fields: map[string]string{"key": "user:1", "store": "memory"},
			},
			wantMsg: "cache miss",
			wantFields: map[string]interface{}{
				"key":   "user:1",
				"store": "memory",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, logs := newObservedLogger(zapcore.DebugLevel)
			ctx := trace.ContextWithSpanContext(context.Background(), testSpanContext())

			EmitEvent(ctx, logger, zapcore.InfoLevel, tt.event)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, zapcore.InfoLevel, entry.Level)

			fields := entry.ContextMap()
			for k, v := range tt.wantFields {
				assert.Equal(t, v, fields[k], k)
			}
			assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
			assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
			_, hasRequestID := fields["request_id"]
			assert.False(t, hasRequestID)
		})
	}
}

func TestEmitEvent_NoSpan(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger(zapcore.DebugLevel)

	EmitEvent(context.Background(), logger, zapcore.InfoLevel, RequestEvent{})

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, strings.Repeat("0", 32), fields["trace_id"])
	assert.Equal(t, strings.Repeat("0", 16), fields["span_id"])
	assert.Equal(t, "", fields["request_body"])
}

func TestEmitEvent_RequestID(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger(zapcore.DebugLevel)
	ctx := ContextWithRequestID(context.Background(), "req-42")

	EmitEvent(ctx, logger, zapcore.InfoLevel, ResponseEvent{Body: "done"})

	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestEmitEvent_Levels(t *testing.T) {
	t.Parallel()

	for _, level := range []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	} {
		logger, logs := newObservedLogger(zapcore.DebugLevel)

		EmitEvent(context.Background(), logger, level, GenericEvent{Msg: "m"})

		require.Equal(t, 1, logs.Len(), level.String())
		assert.Equal(t, level, logs.All()[0].Level)
	}
}

func TestEmitEvent_Disabled(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger(zapcore.DebugLevel)
	require.NoError(t, logger.SetLevel("warn"))

	EmitEvent(context.Background(), logger, zapcore.InfoLevel, RequestEvent{Body: "x"})
	assert.Zero(t, logs.Len())

	assert.NotPanics(t, func() {
		EmitEvent(context.Background(), nil, zapcore.InfoLevel, RequestEvent{})
		EmitEvent(context.Background(), logger, zapcore.ErrorLevel, nil)
	})
	assert.Zero(t, logs.Len())
}

func TestGenericEvent_FieldOrder(t *testing.T) {
	t.Parallel()

	ev := GenericEvent{Msg: "m", Fields: map[string]string{"b": "2", "a": "1", "c": "3"}}

	fields := ev.fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
}
