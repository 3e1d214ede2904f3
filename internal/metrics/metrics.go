package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	BorrowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borrows_total",
			Help: "Total successful ledger operations",
		},
		[]string{"action"}, // borrow|return
	)
	BorrowsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "borrows_rejected_total",
			Help: "Total ledger operations rejected by a business rule",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(BorrowsTotal)
	prometheus.MustRegister(BorrowsRejected)
	prometheus.MustRegister(WorkerQueueDepth)
}
