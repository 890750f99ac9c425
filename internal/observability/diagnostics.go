package observability

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.opentelemetry.io/otel"
)

// InstallOTelDiagnostics routes OpenTelemetry SDK diagnostics (exporter
// failures, dropped spans) into logger.
func InstallOTelDiagnostics(logger Logger) {
	otel.SetLogger(NewLogr(logger.With(String("component", "otel"))))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn("opentelemetry error", Error(err))
	}))
}

// NewLogr adapts logger to logr. V(n) logs at zap level -n, so V(0) is info
// and V(1) is debug; higher verbosity needs a level below debug.
func NewLogr(logger Logger) logr.Logger {
	return zapr.NewLoggerWithOptions(ZapLogger(logger))
}
