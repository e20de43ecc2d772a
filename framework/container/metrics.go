package container

import (
	metrics "github.com/rcrowley/go-metrics"
)

// Metric names registered by every container.
const (
	StatResolutions = "container.resolutions"
	StatCacheHits   = "container.cache_hits"
	StatAutowires   = "container.autowires"
	StatFailures    = "container.failures"
	StatLatency     = "container.resolve_latency"
)

type resolverMetrics struct {
	registry    metrics.Registry
	resolutions metrics.Counter
	hits        metrics.Counter
	autowires   metrics.Counter
	failures    metrics.Counter

	// top-level make only
	latency metrics.Timer
}

func newResolverMetrics(r metrics.Registry) *resolverMetrics {
	return &resolverMetrics{
		registry:    r,
		resolutions: metrics.GetOrRegisterCounter(StatResolutions, r),
		hits:        metrics.GetOrRegisterCounter(StatCacheHits, r),
		autowires:   metrics.GetOrRegisterCounter(StatAutowires, r),
		failures:    metrics.GetOrRegisterCounter(StatFailures, r),
		latency:     metrics.GetOrRegisterTimer(StatLatency, r),
	}
}
