// Package prometheus exposes the service metrics: feed fetch outcomes,
// build timings, data-quality gauges, and HTTP traffic.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every registered collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FeedFetches       *prometheus.CounterVec
	BuildDuration     *prometheus.HistogramVec
	BuildBills        *prometheus.CounterVec
	UnmatchedSponsors *prometheus.GaugeVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	CacheAccesses     *prometheus.CounterVec
	EventsPublished   *prometheus.CounterVec
}

// NewMetrics registers the application metrics plus process and Go runtime
// collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billstats",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and outcome.",
		}, []string{"feed", "outcome"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "billstats",
			Name:      "build_duration_seconds",
			Help:      "Stats build wall time per session.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"session"}),
		BuildBills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billstats",
			Name:      "build_bills_total",
			Help:      "Bills folded into builds per session.",
		}, []string{"session"}),
		UnmatchedSponsors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "billstats",
			Name:      "unmatched_sponsors",
			Help:      "Unresolved sponsor names in the latest build.",
		}, []string{"session"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billstats",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "billstats",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CacheAccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billstats",
			Name:      "cache_accesses_total",
			Help:      "Report cache lookups by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billstats",
			Name:      "events_published_total",
			Help:      "Refresh events published by topic.",
		}, []string{"topic"}),
	}
	registry.MustRegister(
		m.FeedFetches,
		m.BuildDuration,
		m.BuildBills,
		m.UnmatchedSponsors,
		m.HTTPRequests,
		m.HTTPDuration,
		m.CacheAccesses,
		m.EventsPublished,
	)
	return m
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFeedFetch records one fetch attempt.
func (m *Metrics) ObserveFeedFetch(feed string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.FeedFetches.WithLabelValues(feed, outcome).Inc()
}

// ObserveBuild records a completed build.
func (m *Metrics) ObserveBuild(session int, bills, unmatched int, duration time.Duration) {
	label := strconv.Itoa(session)
	m.BuildDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.BuildBills.WithLabelValues(label).Add(float64(bills))
	m.UnmatchedSponsors.WithLabelValues(label).Set(float64(unmatched))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCache records one report-cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheAccesses.WithLabelValues(outcome).Inc()
}

//Personal.AI order the ending
