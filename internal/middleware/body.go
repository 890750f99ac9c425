package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// CapturedBody is a fully read message body. The bytes are owned by the
// capture; NewReader hands out independent views of them.
type CapturedBody struct {
	data []byte
}

// CaptureBody reads r to completion. On a read failure the captured body is
// empty and the error is returned so the caller can record it; the capture
// itself is always usable. A nil reader or http.NoBody yields an empty body.
func CaptureBody(r io.Reader) (*CapturedBody, error) {
	if r == nil || r == http.NoBody {
		return &CapturedBody{}, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return &CapturedBody{}, fmt.Errorf("failed to read body: %w", err)
	}
	return &CapturedBody{data: data}, nil
}

// NewCapturedBody wraps data already held in memory.
func NewCapturedBody(data []byte) *CapturedBody {
	return &CapturedBody{data: data}
}

// Bytes returns the captured bytes. Callers must not modify them.
func (b *CapturedBody) Bytes() []byte {
	return b.data
}

// Len returns the number of captured bytes.
func (b *CapturedBody) Len() int {
	return len(b.data)
}

// NewReader returns a fresh reader over the captured bytes. Empty captures
// return http.NoBody.
func (b *CapturedBody) NewReader() io.ReadCloser {
	if len(b.data) == 0 {
		return http.NoBody
	}
	return io.NopCloser(bytes.NewReader(b.data))
}

// Text returns the body as text for logging. Invalid UTF-8 is never logged;
// the decode error description is returned instead.
func (b *CapturedBody) Text() string {
	text, err := decodeText(b.data)
	if err != nil {
		return err.Error()
	}
	return text
}

// decodeText validates data as UTF-8.
func decodeText(data []byte) (string, error) {
	if _, n, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", fmt.Errorf("body is not valid UTF-8 (valid up to byte %d): %w", n, err)
	}
	return string(data), nil
}

// restoreRequestBody replaces the consumed request body with a view of the
// captured bytes.
func restoreRequestBody(r *http.Request, body *CapturedBody) {
	r.Body = body.NewReader()
	r.ContentLength = int64(body.Len())
	r.GetBody = func() (io.ReadCloser, error) {
		return body.NewReader(), nil
	}
}
