// Package metrics exposes Prometheus counters for rendering and caching.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	renders   *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	cacheMiss *prometheus.CounterVec
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colormaps",
			Name:      "renders_total",
			Help:      "Images rendered, by kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colormaps",
			Name:      "cache_hits_total",
			Help:      "Cache hits, by cache.",
		}, []string{"cache"}),
		cacheMiss: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "colormaps",
			Name:      "cache_misses_total",
			Help:      "Cache misses, by cache.",
		}, []string{"cache"}),
	}
	reg.MustRegister(m.renders, m.cacheHits, m.cacheMiss)
	return m
}

// Rendered counts one render of the given kind.
func (m *Metrics) Rendered(kind string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(kind).Inc()
}

// CacheLookup counts a hit or miss on the named cache.
func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.WithLabelValues(cache).Inc()
		return
	}
	m.cacheMiss.WithLabelValues(cache).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
