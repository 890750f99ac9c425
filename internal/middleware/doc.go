// Package middleware provides the HTTP request tracing and logging
// middleware and the small middlewares it is chained with.
//
// # Components
//
//   - Logging: summary span per request, request/response body logging,
//     header attributes with credential redaction, trace context
//     extraction and injection
//   - RequestSummary: span name and attributes derived from the request
//   - HeaderClassifier: header flattening and redaction
//   - CapturedBody: read-once body capture with reusable readers
//   - RequestID: request identifier injection
//   - Recovery: panic recovery
//
// # Usage
//
// Middleware functions follow the standard Go pattern:
//
//	handler := middleware.RequestID()(
//	    middleware.Logging(logger,
//	        middleware.WithTracerProvider(tracer.Provider()),
//	        middleware.WithPropagator(propagator),
//	    )(
//	        middleware.Recovery(logger)(yourHandler),
//	    ),
//	)
package middleware
