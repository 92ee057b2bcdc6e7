package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposed on /metrics
var (
	// HTTPRequestsTotal counts handled HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alumnifund",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "alumnifund",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// TransitionsTotal counts ledger status transitions by record kind and outcome
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alumnifund",
		Name:      "ledger_transitions_total",
		Help:      "Total number of applied ledger status transitions",
	}, []string{"kind", "target"})

	// SummaryRecomputesTotal counts member summary recomputations
	SummaryRecomputesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alumnifund",
		Name:      "summary_recomputes_total",
		Help:      "Total number of member summary recomputations",
	})

	// OverdueLoansDefaulted counts loans defaulted by the overdue sweep
	OverdueLoansDefaulted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alumnifund",
		Name:      "overdue_loans_defaulted_total",
		Help:      "Total number of loans defaulted by the overdue sweep",
	})
)
