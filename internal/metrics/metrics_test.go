package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brain-service/internal/brain/model"
)

func TestCollector(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	c.Register(reg)

	id := 1
	c.ObserveLookup(model.LookupResult{Found: true, Method: model.MethodExact, Confidence: 100, CanonicalID: &id})
	c.ObserveLookup(model.LookupResult{Found: true, Method: model.MethodExact, Confidence: 100, CanonicalID: &id})
	c.ObserveLookup(model.LookupResult{Method: model.MethodNotFound})

	assert.Equal(t, 2.0, value(t, c.lookups.WithLabelValues(model.MethodExact)))
	assert.Equal(t, 1.0, value(t, c.lookups.WithLabelValues(model.MethodNotFound)))

	c.ObserveIndex("catalog", 150*time.Millisecond, model.Stats{Canonicals: 7, AliasesExact: 8, Unresolved: 2})
	assert.Equal(t, 7.0, value(t, c.canonicals))
	assert.Equal(t, 8.0, value(t, c.aliases.WithLabelValues("exact")))
	assert.Equal(t, 2.0, value(t, c.unresolved))

	c.SetUnresolved(5)
	assert.Equal(t, 5.0, value(t, c.unresolved))

	c.ObserveHTTP("POST", "/lookup", 200, time.Millisecond)
	c.ObserveHTTP("GET", "", 404, time.Millisecond)
	assert.Equal(t, 1.0, value(t, c.httpRequests.WithLabelValues("POST", "/lookup", "200")))
	assert.Equal(t, 1.0, value(t, c.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	series := map[string]int{}
	for _, mf := range mfs {
		series[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, 2, series["brain_lookups_total"])
	// not_found без уверенности в гистограмму не попадает
	assert.Equal(t, 1, series["brain_lookup_confidence"])
}

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveLookup(model.LookupResult{Method: model.MethodExact})
		c.ObserveIndex("catalog", time.Second, model.Stats{})
		c.SetUnresolved(1)
		c.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
