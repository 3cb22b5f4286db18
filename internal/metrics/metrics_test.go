package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Rendered("colorbar")
	m.Rendered("colorbar")
	m.CacheLookup("image", true)
	m.CacheLookup("image", false)
	m.CacheLookup("image", false)

	if got := testutil.ToFloat64(m.renders.WithLabelValues("colorbar")); got != 2 {
		t.Errorf("expected 2 colorbar renders, got %g", got)
	}
	if got := testutil.ToFloat64(m.cacheHits.WithLabelValues("image")); got != 1 {
		t.Errorf("expected 1 hit, got %g", got)
	}
	if got := testutil.ToFloat64(m.cacheMiss.WithLabelValues("image")); got != 2 {
		t.Errorf("expected 2 misses, got %g", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Rendered("colorbar")
	m.CacheLookup("image", true)
	if m.Handler() == nil {
		t.Fatal("expected a handler")
	}
}
