package container

import (
	"io"

	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for resolution tracing.
func WithLogger(l log.FieldLogger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records resolution counters into r instead of a private registry.
func WithMetrics(r metrics.Registry) Option {
	return func(c *Container) {
		if r != nil {
			c.metrics = newResolverMetrics(r)
		}
	}
}

// WithTypes uses types as the autowiring manifest.
func WithTypes(types *Types) Option {
	return func(c *Container) {
		if types != nil {
			c.types = types
		}
	}
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
