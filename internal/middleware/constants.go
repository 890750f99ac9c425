package middleware

// HTTP header constants.
const (
	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderAuthorization is the Authorization header name.
	HeaderAuthorization = "Authorization"

	// HeaderHost is the Host header name.
	HeaderHost = "Host"

	// HeaderUserAgent is the User-Agent header name.
	HeaderUserAgent = "User-Agent"

	// HeaderXRequestID is the X-Request-ID header name.
	HeaderXRequestID = "X-Request-ID"

	// HeaderXRealIP is the X-Real-IP header name.
	HeaderXRealIP = "X-Real-IP"
)

// Content type constants.
const (
	// ContentTypeJSON is the JSON content type.
	ContentTypeJSON = "application/json"
)

// Span attribute namespaces for logged headers.
const (
	// RequestHeaderPrefix namespaces request header attributes.
	RequestHeaderPrefix = "http.request.header"

	// ResponseHeaderPrefix namespaces response header attributes.
	ResponseHeaderPrefix = "http.response.header"
)

// Span status descriptions.
const (
	// StatusDescriptionHTTPError is set for 4xx and 5xx responses.
	StatusDescriptionHTTPError = "See trace spans for the error"

	// StatusDescriptionUnknownCode is set for codes outside 200-599.
	StatusDescriptionUnknownCode = "Unknown HTTP Status Code"
)

// ErrInternalServerError is the body written when a handler panics.
const ErrInternalServerError = `{"error":"internal server error"}`
