package middleware

import (
	"net/http"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RedactionMarker replaces the redacted part of a credential value.
const RedactionMarker = "REDACTED"

// HeaderClassifier flattens header collections into span attributes,
// redacting the credential header.
type HeaderClassifier struct {
	credentialHeader string
}

// NewHeaderClassifier creates a classifier that redacts credentialHeader.
// An empty name means Authorization.
func NewHeaderClassifier(credentialHeader string) *HeaderClassifier {
	if credentialHeader == "" {
		credentialHeader = HeaderAuthorization
	}
	return &HeaderClassifier{credentialHeader: strings.ToLower(credentialHeader)}
}

// Classify returns one attribute per distinct header name, keyed
// prefix.<lower-case name>. Multiple values are joined with a comma.
// Values that are not readable text are logged as ValueUnknown. The
// credential header is redacted or, when it cannot be redacted, omitted.
func (c *HeaderClassifier) Classify(h http.Header, prefix string) []attribute.KeyValue {
	grouped := make(map[string][]string, len(h))
	names := make([]string, 0, len(h))

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := strings.ToLower(k)
		if _, seen := grouped[name]; !seen {
			names = append(names, name)
		}
		grouped[name] = append(grouped[name], h[k]...)
	}

	attrs := make([]attribute.KeyValue, 0, len(names))
	for _, name := range names {
		values := make([]string, 0, len(grouped[name]))
		for _, v := range grouped[name] {
			if !isHeaderText(v) {
				v = ValueUnknown
			}
			if name == c.credentialHeader {
				redacted, ok := RedactCredential(v)
				if !ok {
					continue
				}
				v = redacted
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		attrs = append(attrs, attribute.String(prefix+"."+name, strings.Join(values, ",")))
	}
	return attrs
}

// Annotate sets the classified headers as attributes on span.
func (c *HeaderClassifier) Annotate(span trace.Span, h http.Header, prefix string) {
	if attrs := c.Classify(h, prefix); len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// RedactCredential keeps value up to and including its last '.' and
// appends RedactionMarker. It reports false when value has no '.', in which
// case nothing of it may be logged.
func RedactCredential(value string) (string, bool) {
	pos := strings.LastIndexByte(value, '.')
	if pos < 0 {
		return "", false
	}
	return value[:pos+1] + RedactionMarker, true
}
