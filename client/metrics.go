package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prior_client",
			Name:      "requests_total",
			Help:      "API requests issued, by operation.",
		},
		[]string{"operation"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prior_client",
			Name:      "request_failures_total",
			Help:      "API requests that failed (transport, status or decode), by operation.",
		},
		[]string{"operation"},
	)
)
