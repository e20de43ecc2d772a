// Package diagnostics exposes a read-only view of a container over HTTP.
//
//	GET /container/bindings        every registered identifier
//	GET /container/bindings/{id}   one identifier (ids may contain slashes)
//	GET /container/metrics         resolution counters and latency
//
// Handlers never resolve anything, so they are safe to serve while the
// application resolves on other goroutines.
package diagnostics

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Prefix is where Mount attaches the routes.
const Prefix = "/container"

// Binding is the detail view of one identifier.
type Binding struct {
	container.Entry
	Has   bool `json:"has"`
	Bound bool `json:"bound"`
}

// Mount registers the diagnostic routes on r. The metrics route is only
// mounted when withMetrics is set. Responses are never cached by clients.
func Mount(r *routing.Router, c *container.Container, withMetrics bool) {
	r.Prefix(Prefix, func(cr *routing.Router) {
		cr.Middleware(middleware.NoCache)
		cr.Get("/bindings", listBindings(c))
		cr.Get("/bindings/*", showBinding(c))
		if withMetrics {
			cr.Get("/metrics", showMetrics(c))
		}
	})
}

func listBindings(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(c.Bindings())
	}
}

func showBinding(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		id := routing.Param(req, "*")
		if id == "" {
			res.Fail(&container.InvalidArgumentError{Reason: "missing identifier"})
			return
		}
		if c.Has(id) {
			for _, e := range c.Bindings() {
				if e.ID == id {
					res.Success(Binding{Entry: e, Has: true, Bound: c.Bound(id)})
					return
				}
			}
		}
		res.Fail(&container.NotFoundError{ID: id})
	}
}

func showMetrics(c *container.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(Snapshot(c.Metrics()))
	}
}

// Snapshot flattens the counters and timers of r into a JSON friendly map.
// Timer durations are reported in nanoseconds.
func Snapshot(r metrics.Registry) map[string]any {
	out := make(map[string]any)
	r.Each(func(name string, m any) {
		switch m := m.(type) {
		case metrics.Counter:
			out[name] = m.Count()
		case metrics.Gauge:
			out[name] = m.Value()
		case metrics.Timer:
			t := m.Snapshot()
			ps := t.Percentiles([]float64{0.5, 0.95, 0.99})
			out[name] = map[string]any{
				"count": t.Count(),
				"min":   t.Min(),
				"max":   t.Max(),
				"mean":  t.Mean(),
				"p50":   ps[0],
				"p95":   ps[1],
				"p99":   ps[2],
			}
		}
	})
	return out
}
