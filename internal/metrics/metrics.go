// Package metrics содержит счётчики Prometheus для поиска, построения индекса и HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"brain-service/internal/brain/model"
)

type Collector struct {
	lookups    *prometheus.CounterVec
	confidence *prometheus.HistogramVec
	unresolved prometheus.Gauge

	buildSeconds *prometheus.HistogramVec
	canonicals   prometheus.Gauge
	aliases      *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{}

	c.lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brain",
		Name:      "lookups_total",
		Help:      "Lookups by cascade method",
	}, []string{"method"})

	c.confidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brain",
		Name:      "lookup_confidence",
		Help:      "Confidence of lookup results (0..100)",
		Buckets:   []float64{30, 50, 75, 85, 90, 95, 100},
	}, []string{"method"})

	c.unresolved = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "brain",
		Name:      "unresolved_items",
		Help:      "Entries in the unresolved log since the index was built",
	})

	c.buildSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brain",
		Name:      "build_duration_seconds",
		Help:      "Index build/load duration (source label: catalog, sql, snapshot)",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"source"})

	c.canonicals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "brain",
		Name:      "canonicals",
		Help:      "Canonical products in the serving index",
	})

	c.aliases = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "brain",
		Name:      "aliases",
		Help:      "Alias map sizes in the serving index",
	}, []string{"map"})

	c.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brain",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	c.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brain",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	return c
}

func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.lookups,
		c.confidence,
		c.unresolved,
		c.buildSeconds,
		c.canonicals,
		c.aliases,
		c.httpRequests,
		c.httpDuration,
	)
}

// ObserveLookup учитывает один результат каскада. nil-коллектор ничего не делает.
func (c *Collector) ObserveLookup(res model.LookupResult) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(res.Method).Inc()
	if res.Found {
		c.confidence.WithLabelValues(res.Method).Observe(res.Confidence)
	}
}

// ObserveIndex: новый индекс встал на обслуживание.
func (c *Collector) ObserveIndex(source string, elapsed time.Duration, st model.Stats) {
	if c == nil {
		return
	}
	c.buildSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
	c.canonicals.Set(float64(st.Canonicals))
	c.aliases.WithLabelValues("exact").Set(float64(st.AliasesExact))
	c.aliases.WithLabelValues("cleaned").Set(float64(st.AliasesCleaned))
	c.aliases.WithLabelValues("search_key").Set(float64(st.AliasesSearchKey))
	c.unresolved.Set(float64(st.Unresolved))
}

func (c *Collector) SetUnresolved(n int) {
	if c == nil {
		return
	}
	c.unresolved.Set(float64(n))
}

// ObserveHTTP: route это шаблон chi ("/lookup"), не сырой путь.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
