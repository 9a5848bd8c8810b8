package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	SubmissionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formrelay_submissions_total",
			Help: "Total number of contact submissions by outcome",
		},
		[]string{"outcome"},
	)

	RequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "formrelay_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "status"},
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
