package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		existingRequestID string
		expectNewID       bool
	}{
		{
			name:              "generates new request ID",
			existingRequestID: "",
			expectNewID:       true,
		},
		{
			name:              "uses existing request ID",
			existingRequestID: "existing-request-id-123",
			expectNewID:       false,
		},
		{
			name:              "replaces unreadable request ID",
			existingRequestID: "bad\x01id",
			expectNewID:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedRequestID string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedRequestID = observability.RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingRequestID != "" {
				req.Header.Set(HeaderXRequestID, tt.existingRequestID)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			responseRequestID := rec.Header().Get(HeaderXRequestID)
			assert.NotEmpty(t, responseRequestID)
			assert.Equal(t, responseRequestID, capturedRequestID)

			if tt.expectNewID {
				assert.Len(t, responseRequestID, 36) // UUID
			} else {
				assert.Equal(t, tt.existingRequestID, responseRequestID)
			}
		})
	}
}

func TestRequestIDWithGenerator(t *testing.T) {
	t.Parallel()

	handler := RequestIDWithGenerator(func() string { return "fixed-id" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(observability.RequestIDFromContext(r.Context())))
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "fixed-id", rec.Header().Get(HeaderXRequestID))
	assert.Equal(t, "fixed-id", rec.Body.String())
}

func TestRequestID_CorrelatesBodyEvents(t *testing.T) {
	t.Parallel()

	p := newPipeline(t, echoHandler(http.StatusOK))
	handler := RequestIDWithGenerator(func() string { return "req-7" })(p.handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	entries := p.logs.All()
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "req-7", e.ContextMap()["request_id"])
	}
	assert.Equal(t, "req-7", spanAttrs(p.singleSpan(t))["http.response.header.x-request-id"].AsString())
}
