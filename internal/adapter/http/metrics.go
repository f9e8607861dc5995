package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tailorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tailor_requests_total",
		Help: "Pipeline runs started via the HTTP front end, by outcome.",
	}, []string{"status"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tailor_pipeline_duration_seconds",
		Help:    "Wall-clock duration of full pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

func observePipeline(took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	tailorRequestsTotal.WithLabelValues(status).Inc()
	pipelineDuration.Observe(took.Seconds())
}
