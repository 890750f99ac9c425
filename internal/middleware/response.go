package middleware

import (
	"bytes"
	"net/http"
)

// bufferedResponseWriter holds the handler's status and body until the
// response side of the logging pipeline has run. Headers go straight to
// the underlying writer's header map, which is not sent before flushTo.
type bufferedResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedResponseWriter(w http.ResponseWriter) *bufferedResponseWriter {
	return &bufferedResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// WriteHeader records the status code. Informational responses other than
// 101 are forwarded immediately, as net/http does. Codes net/http rejects
// are forwarded too, so the rejection panics inside the handler chain
// where Recovery can turn it into a 500.
func (rw *bufferedResponseWriter) WriteHeader(code int) {
	if code < 100 || code > 999 {
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	if rw.wroteHeader {
		return
	}
	if code <= 199 && code != http.StatusSwitchingProtocols {
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	rw.status = code
	rw.wroteHeader = true
}

// Write buffers b.
func (rw *bufferedResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.body.Write(b)
}

// Flush is a no-op: the body is sent once the handler returns.
func (rw *bufferedResponseWriter) Flush() {}

// Unwrap returns the underlying writer for http.ResponseController.
func (rw *bufferedResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Status returns the recorded status code.
func (rw *bufferedResponseWriter) Status() int {
	return rw.status
}

// flushTo writes the recorded status and body to the underlying writer.
func (rw *bufferedResponseWriter) flushTo(body *CapturedBody) (int, error) {
	rw.ResponseWriter.WriteHeader(rw.status)
	if body.Len() == 0 {
		return 0, nil
	}
	return rw.ResponseWriter.Write(body.Bytes())
}
