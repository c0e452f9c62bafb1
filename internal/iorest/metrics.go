package iorest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "gnforms"

// metrics are registered on a registry owned by one server.
type metrics struct {
	registry *prometheus.Registry

	// requests counts HTTP requests by route, method and status.
	requests *prometheus.CounterVec

	// latency measures request duration by route.
	latency *prometheus.HistogramVec

	imports  prometheus.Counter
	versions prometheus.Counter
}

func newMetrics() *metrics {
	res := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		imports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Imported CSV files",
		}),
		versions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_versions_total",
			Help:      "Question versions created by edits",
		}),
	}
	res.registry.MustRegister(
		res.requests,
		res.latency,
		res.imports,
		res.versions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return res
}
