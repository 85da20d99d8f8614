// Package observability provides Prometheus metrics for the response cache.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"nutribot/internal/core"
)

// PrometheusHooks implements cache.Hooks, counting lookups by winning source
// and accumulating the estimated generation spend.
type PrometheusHooks struct {
	lookups  *prometheus.CounterVec
	genCalls prometheus.Counter
	genCost  prometheus.Counter
}

// NewPrometheusHooks registers the cache metrics on the default registry.
// Call once per process.
func NewPrometheusHooks() *PrometheusHooks {
	return &PrometheusHooks{
		lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nutribot_cache_lookups_total",
			Help: "Cache lookups by winning source tier.",
		}, []string{"source"}),
		genCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nutribot_generation_calls_total",
			Help: "Number of external generator invocations.",
		}),
		genCost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nutribot_generation_cost_dollars_total",
			Help: "Estimated cumulative generation spend in dollars.",
		}),
	}
}

// OnLookup implements cache.Hooks.
func (h *PrometheusHooks) OnLookup(source core.Source) {
	h.lookups.WithLabelValues(string(source)).Inc()
}

// OnGeneration implements cache.Hooks.
func (h *PrometheusHooks) OnGeneration(cost float64) {
	h.genCalls.Inc()
	h.genCost.Add(cost)
}
