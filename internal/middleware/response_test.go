package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("holds status and body until flushed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		rw := newBufferedResponseWriter(rec)

		rw.Header().Set("X-Test", "1")
		rw.WriteHeader(http.StatusTeapot)
		n, err := rw.Write([]byte("short and stout"))
		require.NoError(t, err)
		assert.Equal(t, 15, n)

		assert.False(t, rec.Flushed)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, http.StatusTeapot, rw.Status())

		_, err = rw.flushTo(NewCapturedBody(rw.body.Bytes()))
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", rec.Body.String())
		assert.Equal(t, "1", rec.Header().Get("X-Test"))
	})

	t.Run("first status wins", func(t *testing.T) {
		t.Parallel()

		rw := newBufferedResponseWriter(httptest.NewRecorder())
		rw.WriteHeader(http.StatusAccepted)
		rw.WriteHeader(http.StatusBadRequest)

		assert.Equal(t, http.StatusAccepted, rw.Status())
	})

	t.Run("write implies 200", func(t *testing.T) {
		t.Parallel()

		rw := newBufferedResponseWriter(httptest.NewRecorder())
		_, _ = rw.Write([]byte("x"))
		rw.WriteHeader(http.StatusNotFound)

		assert.Equal(t, http.StatusOK, rw.Status())
	})

	t.Run("informational status passes through", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		rw := newBufferedResponseWriter(rec)
		rw.WriteHeader(http.StatusEarlyHints)
		rw.WriteHeader(http.StatusCreated)

		assert.Equal(t, http.StatusCreated, rw.Status())
	})

	t.Run("invalid status reaches the underlying writer", func(t *testing.T) {
		t.Parallel()

		rw := newBufferedResponseWriter(httptest.NewRecorder())

		assert.Panics(t, func() { rw.WriteHeader(99) })
		assert.Panics(t, func() { rw.WriteHeader(1000) })

		rw.WriteHeader(http.StatusInternalServerError)
		assert.Equal(t, http.StatusInternalServerError, rw.Status())
	})

	t.Run("flush keeps the response buffered", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		rw := newBufferedResponseWriter(rec)
		rw.WriteHeader(http.StatusAccepted)
		_, _ = rw.Write([]byte("partial"))

		require.NoError(t, http.NewResponseController(rw).Flush())

		assert.False(t, rec.Flushed)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, http.StatusAccepted, rw.Status())
	})

	t.Run("unsupported controller features fail cleanly", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		rw := newBufferedResponseWriter(rec)

		assert.Same(t, rec, rw.Unwrap())
		assert.ErrorIs(t, http.NewResponseController(rw).SetWriteDeadline(time.Now()), http.ErrNotSupported)
	})
}
