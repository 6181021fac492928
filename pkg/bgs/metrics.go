package bgs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK            = "ok"
	outcomeNetworkError  = "network_error"
	outcomeUpstreamError = "upstream_error"
	outcomeMalformed     = "malformed_response"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgs_upstream_requests_total",
			Help: "Requests made to the BGS OGC API, labelled by outcome",
		},
		[]string{"outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgs_upstream_request_duration_seconds",
			Help:    "Duration of BGS OGC API requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func observeRequest(outcome string) {
	upstreamRequests.WithLabelValues(outcome).Inc()
}
