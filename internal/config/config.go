package config

import (
	"time"
)

// Config is the reqtrace process configuration.
type Config struct {
	Service        ServiceConfig        `yaml:"service" json:"service"`
	Server         ServerConfig         `yaml:"server" json:"server"`
	Logging        LoggingConfig        `yaml:"logging" json:"logging"`
	Tracing        TracingConfig        `yaml:"tracing" json:"tracing"`
	RequestLogging RequestLoggingConfig `yaml:"requestLogging" json:"requestLogging"`
}

// ServiceConfig describes the service in emitted telemetry.
type ServiceConfig struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string   `yaml:"address" json:"address"`
	ReadTimeout     Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// TracingConfig configures span export and propagation.
type TracingConfig struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	OTLPEndpoint string   `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`
	SamplingRate float64  `yaml:"samplingRate" json:"samplingRate"`
	Insecure     bool     `yaml:"insecure" json:"insecure"`
	Timeout      Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Propagators  []string `yaml:"propagators,omitempty" json:"propagators,omitempty"`
	Baggage      bool     `yaml:"baggage" json:"baggage"`
}

// RequestLoggingConfig configures the request tracing and logging middleware.
type RequestLoggingConfig struct {
	SkipPaths        []string `yaml:"skipPaths,omitempty" json:"skipPaths,omitempty"`
	CredentialHeader string   `yaml:"credentialHeader,omitempty" json:"credentialHeader,omitempty"`
}

// Default values.
const (
	DefaultServiceName      = "reqtrace"
	DefaultAddress          = ":8080"
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultLogOutput        = "stdout"
	DefaultOTLPEndpoint     = "localhost:4317"
	DefaultCredentialHeader = "Authorization"
	DefaultPropagator       = "w3c"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        DefaultServiceName,
			Environment: "develop",
		},
		Server: ServerConfig{
			Address:         DefaultAddress,
			ReadTimeout:     Duration(DefaultReadTimeout),
			WriteTimeout:    Duration(DefaultWriteTimeout),
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			OTLPEndpoint: DefaultOTLPEndpoint,
			SamplingRate: 1.0,
			Insecure:     true,
			Propagators:  []string{DefaultPropagator},
			Baggage:      true,
		},
		RequestLogging: RequestLoggingConfig{
			CredentialHeader: DefaultCredentialHeader,
		},
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()

	if c.Service.Name == "" {
		c.Service.Name = d.Service.Name
	}
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = d.Logging.Output
	}
	if c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "" {
		c.Tracing.OTLPEndpoint = d.Tracing.OTLPEndpoint
	}
	if len(c.Tracing.Propagators) == 0 {
		c.Tracing.Propagators = d.Tracing.Propagators
	}
	if c.RequestLogging.CredentialHeader == "" {
		c.RequestLogging.CredentialHeader = d.RequestLogging.CredentialHeader
	}
}

// Duration is a time.Duration written as a Go duration string ("30s",
// "1m30s") in YAML and JSON. An empty string or null is zero.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}
	return d.parse(s)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
