package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsVoided  prometheus.Counter
	TransactionsPaid    prometheus.Counter
	TransactionErrors   *prometheus.CounterVec
	OverdueTransactions prometheus.Gauge

	// Payment metrics
	PaymentsRecorded prometheus.Counter
	PaymentsReversed prometheus.Counter
	PaymentAmount    prometheus.Histogram

	// Billing metrics
	ChargesBilled      prometheus.Counter
	BillingRunDuration prometheus.Histogram

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_transactions_voided_total",
			Help: "Total number of transactions voided",
		}),
		TransactionsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_transactions_paid_total",
			Help: "Total number of transactions settled",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),
		OverdueTransactions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rentledger_overdue_transactions",
			Help: "Number of open transactions past their due date",
		}),

		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_payments_recorded_total",
			Help: "Total number of payments recorded",
		}),
		PaymentsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_payments_reversed_total",
			Help: "Total number of payments reversed",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_payment_amount",
			Help:    "Payment amounts",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 100000},
		}),

		ChargesBilled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_charges_billed_total",
			Help: "Total number of recurring charges billed",
		}),
		BillingRunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_billing_run_duration_seconds",
			Help:    "Duration of recurring billing runs",
			Buckets: prometheus.DefBuckets,
		}),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_events_published_total",
			Help: "Total number of outbox events published",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_events_failed_total",
			Help: "Total number of outbox events that failed to publish",
		}),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_cache_hits_total",
			Help: "Total transaction cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_cache_misses_total",
			Help: "Total transaction cache misses",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_http_requests_total",
				Help: "Total HTTP requests by method, route, and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentledger_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}
