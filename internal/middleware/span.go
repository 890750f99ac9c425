package middleware

import (
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// SummarySpanName is the name of the span covering one request-response cycle.
const SummarySpanName = "RequestSummary"

// Fallback values for request metadata that cannot be read.
const (
	// ValueNotSent marks a header that was absent from the request.
	ValueNotSent = "NOT_SENT"

	// ValueUnknown marks a header whose value is not readable text.
	ValueUnknown = "UNKNOWN"
)

// AttrHTTPRequestPath is the span attribute holding the request path.
const AttrHTTPRequestPath = attribute.Key("http.request.path")

// RequestSummary holds the request metadata recorded on the summary span.
type RequestSummary struct {
	Method        string
	Scheme        string
	ServerAddress string
	ServerPort    string
	Path          string
	Query         string
	FullURL       string
	ClientAddress string
	UserAgent     string
}

// NewRequestSummary derives the summary span metadata from r. It never
// fails; unreadable or missing values degrade to fallback strings.
func NewRequestSummary(r *http.Request) RequestSummary {
	scheme := requestScheme(r)
	address, port := splitHostHeader(hostHeader(r), scheme)

	s := RequestSummary{
		Method:        r.Method,
		Scheme:        scheme,
		ServerAddress: address,
		ServerPort:    port,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		ClientAddress: headerOrFallback(r.Header, HeaderXRealIP),
		UserAgent:     headerOrFallback(r.Header, HeaderUserAgent),
	}
	s.FullURL = buildFullURL(scheme, address, port, r.URL.RequestURI())
	return s
}

// Attributes returns the span attributes for the summary.
func (s RequestSummary) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(s.Method),
		semconv.ServerAddressKey.String(s.ServerAddress),
		semconv.ServerPortKey.String(s.ServerPort),
		semconv.URLSchemeKey.String(s.Scheme),
		semconv.URLFullKey.String(s.FullURL),
		semconv.UserAgentOriginalKey.String(s.UserAgent),
		semconv.URLQueryKey.String(s.Query),
		semconv.ClientAddressKey.String(s.ClientAddress),
		AttrHTTPRequestPath.String(s.Path),
	}
}

// requestScheme returns the URL scheme of r. Server-side requests rarely
// carry one, so TLS state decides between https and http.
func requestScheme(r *http.Request) string {
	if r.URL.Scheme != "" {
		return strings.ToLower(r.URL.Scheme)
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// hostHeader returns the Host header value. net/http moves it out of
// r.Header into r.Host on the server side.
func hostHeader(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}
	return r.Header.Get(HeaderHost)
}

// splitHostHeader splits a Host header into address and port. Without an
// explicit port the scheme default is used. An empty or unreadable header
// yields two empty strings.
func splitHostHeader(host, scheme string) (address, port string) {
	if host == "" || !isHeaderText(host) {
		return "", ""
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		return h, p
	}

	switch scheme {
	case "http":
		return host, "80"
	case "https":
		return host, "443"
	default:
		return host, ""
	}
}

// buildFullURL assembles scheme://address[:port]path[?query].
func buildFullURL(scheme, address, port, requestURI string) string {
	var sb strings.Builder
	sb.Grow(len(scheme) + len(address) + len(port) + len(requestURI) + 4)
	sb.WriteString(scheme)
	sb.WriteString("://")
	if port != "" && strings.Contains(address, ":") && !strings.HasPrefix(address, "[") {
		// IPv6 literal
		sb.WriteString(net.JoinHostPort(address, port))
	} else {
		sb.WriteString(address)
		if port != "" {
			sb.WriteByte(':')
			sb.WriteString(port)
		}
	}
	sb.WriteString(requestURI)
	return sb.String()
}

// headerOrFallback returns the first value of name, ValueNotSent when the
// header is absent, or ValueUnknown when the value is not readable text.
func headerOrFallback(h http.Header, name string) string {
	values := h.Values(name)
	if len(values) == 0 {
		return ValueNotSent
	}
	if !isHeaderText(values[0]) {
		return ValueUnknown
	}
	return values[0]
}

// isHeaderText reports whether v consists only of visible ASCII, space and
// horizontal tab.
func isHeaderText(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\t' {
			continue
		}
		if c < ' ' || c > '~' {
			return false
		}
	}
	return true
}
