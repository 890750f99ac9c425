package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reader   io.Reader
		wantData []byte
		wantText string
		wantErr  bool
	}{
		{
			name:     "nil reader",
			reader:   nil,
			wantText: "",
		},
		{
			name:     "no body",
			reader:   http.NoBody,
			wantText: "",
		},
		{
			name:     "text body",
			reader:   strings.NewReader(`{"name":"widget"}`),
			wantData: []byte(`{"name":"widget"}`),
			wantText: `{"name":"widget"}`,
		},
		{
			name:     "multibyte utf-8",
			reader:   strings.NewReader("héllo wörld"),
			wantData: []byte("héllo wörld"),
			wantText: "héllo wörld",
		},
		{
			name:    "read error",
			reader:  iotest.ErrReader(errors.New("connection reset")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body, err := CaptureBody(tt.reader)
			require.NotNil(t, body)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection reset")
				assert.Equal(t, 0, body.Len())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantData, body.Bytes())
			assert.Equal(t, tt.wantText, body.Text())
		})
	}
}

func TestCapturedBody_InvalidUTF8(t *testing.T) {
	t.Parallel()

	raw := []byte{'o', 'k', 0xff, 0xfe, 'x'}
	body, err := CaptureBody(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, raw, body.Bytes())
	assert.Contains(t, body.Text(), "not valid UTF-8")
	assert.NotContains(t, body.Text(), "ok")
}

func TestCapturedBody_NewReader(t *testing.T) {
	t.Parallel()

	t.Run("independent readers", func(t *testing.T) {
		t.Parallel()

		body := NewCapturedBody([]byte("payload"))

		first, err := io.ReadAll(body.NewReader())
		require.NoError(t, err)
		second, err := io.ReadAll(body.NewReader())
		require.NoError(t, err)

		assert.Equal(t, []byte("payload"), first)
		assert.Equal(t, first, second)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		body := NewCapturedBody(nil)
		assert.Equal(t, http.NoBody, body.NewReader())
	})
}

func TestRestoreRequestBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc"))
	body, err := CaptureBody(req.Body)
	require.NoError(t, err)

	restoreRequestBody(req, body)

	assert.Equal(t, int64(3), req.ContentLength)
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	require.NotNil(t, req.GetBody)
	rc, err := req.GetBody()
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
