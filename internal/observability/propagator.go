package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel/propagation"
)

// PropagatorType defines the wire format of a context propagator.
type PropagatorType string

const (
	// PropagatorW3C uses W3C Trace Context propagation.
	PropagatorW3C PropagatorType = "w3c"
	// PropagatorB3 uses B3 single-header propagation (Zipkin style).
	PropagatorB3 PropagatorType = "b3"
	// PropagatorB3Multi uses B3 multi-header propagation.
	PropagatorB3Multi PropagatorType = "b3-multi"
	// PropagatorJaeger uses Jaeger propagation.
	PropagatorJaeger PropagatorType = "jaeger"
)

// PropagatorConfig holds configuration for context propagation.
type PropagatorConfig struct {
	// Types is the list of propagator types to use.
	Types []PropagatorType

	// EnableBaggage enables baggage propagation.
	EnableBaggage bool
}

// DefaultPropagatorConfig returns a PropagatorConfig with default values.
func DefaultPropagatorConfig() *PropagatorConfig {
	return &PropagatorConfig{
		Types:         []PropagatorType{PropagatorW3C},
		EnableBaggage: true,
	}
}

// ParsePropagatorType validates a propagator name.
func ParsePropagatorType(name string) (PropagatorType, error) {
	switch t := PropagatorType(name); t {
	case PropagatorW3C, PropagatorB3, PropagatorB3Multi, PropagatorJaeger:
		return t, nil
	default:
		return "", fmt.Errorf("unknown propagator %q", name)
	}
}

// NewTextMapPropagator builds the composite text-map propagator described
// by config. Unknown types fall back to W3C Trace Context.
func NewTextMapPropagator(config *PropagatorConfig) propagation.TextMapPropagator {
	if config == nil {
		config = DefaultPropagatorConfig()
	}

	propagators := make([]propagation.TextMapPropagator, 0, len(config.Types)+1)
	for _, t := range config.Types {
		switch t {
		case PropagatorB3:
			propagators = append(propagators, b3.New(b3.WithInjectEncoding(b3.B3SingleHeader)))
		case PropagatorB3Multi:
			propagators = append(propagators, b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)))
		case PropagatorJaeger:
			propagators = append(propagators, jaeger.Jaeger{})
		default:
			propagators = append(propagators, propagation.TraceContext{})
		}
	}
	if len(propagators) == 0 {
		propagators = append(propagators, propagation.TraceContext{})
	}

	if config.EnableBaggage {
		propagators = append(propagators, propagation.Baggage{})
	}

	return propagation.NewCompositeTextMapPropagator(propagators...)
}

// Propagator moves trace context between a context.Context and HTTP headers.
// It is safe for concurrent use.
type Propagator struct {
	format propagation.TextMapPropagator
}

// NewPropagator wraps format. A nil format means W3C Trace Context.
func NewPropagator(format propagation.TextMapPropagator) *Propagator {
	if format == nil {
		format = propagation.TraceContext{}
	}
	return &Propagator{format: format}
}

// Extract returns ctx enriched with the remote span context found in h.
// Missing or malformed headers leave ctx unchanged.
func (p *Propagator) Extract(ctx context.Context, h http.Header) context.Context {
	if h == nil {
		return ctx
	}
	return p.format.Extract(ctx, propagation.HeaderCarrier(h))
}

// Inject writes the propagation headers for ctx into h. Existing values
// are overwritten, so repeated calls never duplicate a header.
func (p *Propagator) Inject(ctx context.Context, h http.Header) {
	if h == nil {
		return
	}
	p.format.Inject(ctx, propagation.HeaderCarrier(h))
}
