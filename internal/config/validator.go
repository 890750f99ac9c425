package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/reqtrace/internal/observability"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateConfig validates a configuration.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(path, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if cfg == nil {
		add("", "configuration is nil")
		return errs
	}

	if strings.TrimSpace(cfg.Service.Name) == "" {
		add("service.name", "is required")
	}

	if cfg.Server.Address == "" {
		add("server.address", "is required")
	}
	if cfg.Server.ReadTimeout < 0 {
		add("server.readTimeout", "must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		add("server.writeTimeout", "must not be negative")
	}
	if cfg.Server.ShutdownTimeout < 0 {
		add("server.shutdownTimeout", "must not be negative")
	}

	if _, err := observability.ParseLevel(cfg.Logging.Level); err != nil {
		add("logging.level", "unknown level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case observability.FormatJSON, observability.FormatConsole:
	default:
		add("logging.format", "must be %q or %q, got %q",
			observability.FormatJSON, observability.FormatConsole, cfg.Logging.Format)
	}
	switch cfg.Logging.Output {
	case "", "stdout", "stderr":
	default:
		add("logging.output", "must be stdout or stderr, got %q", cfg.Logging.Output)
	}

	if cfg.Tracing.SamplingRate < 0 || cfg.Tracing.SamplingRate > 1 {
		add("tracing.samplingRate", "must be between 0 and 1, got %v", cfg.Tracing.SamplingRate)
	}
	if cfg.Tracing.Timeout < 0 {
		add("tracing.timeout", "must not be negative")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.OTLPEndpoint == "" {
		add("tracing.otlpEndpoint", "is required when tracing is enabled")
	}
	for i, name := range cfg.Tracing.Propagators {
		if _, err := observability.ParsePropagatorType(name); err != nil {
			add(fmt.Sprintf("tracing.propagators[%d]", i), "%v", err)
		}
	}

	for i, p := range cfg.RequestLogging.SkipPaths {
		if !strings.HasPrefix(p, "/") {
			add(fmt.Sprintf("requestLogging.skipPaths[%d]", i), "must start with '/', got %q", p)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// PropagatorConfig converts the tracing section into a propagator configuration.
// Call it on validated configuration only; unknown names are dropped.
func (c TracingConfig) PropagatorConfig() *observability.PropagatorConfig {
	types := make([]observability.PropagatorType, 0, len(c.Propagators))
	for _, name := range c.Propagators {
		if t, err := observability.ParsePropagatorType(name); err == nil {
			types = append(types, t)
		}
	}
	return &observability.PropagatorConfig{
		Types:         types,
		EnableBaggage: c.Baggage,
	}
}

// TracerConfig converts the configuration into a tracer configuration.
func (c *Config) TracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    c.Service.Name,
		ServiceVersion: c.Service.Version,
		Environment:    c.Service.Environment,
		OTLPEndpoint:   c.Tracing.OTLPEndpoint,
		SamplingRate:   c.Tracing.SamplingRate,
		Enabled:        c.Tracing.Enabled,
		Insecure:       c.Tracing.Insecure,
		Timeout:        c.Tracing.Timeout.Duration(),
	}
}

// LogConfig converts the logging section into a logger configuration.
func (c LoggingConfig) LogConfig() observability.LogConfig {
	lc := observability.DefaultLogConfig()
	lc.Level = c.Level
	lc.Format = c.Format
	if c.Output != "" {
		lc.Output = c.Output
	}
	return lc
}
