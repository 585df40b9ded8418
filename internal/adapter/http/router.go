package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/propertyops/rentledger/internal/adapter/http/handler"
	"github.com/propertyops/rentledger/internal/adapter/http/middleware"
	"github.com/propertyops/rentledger/internal/infrastructure/metrics"
	"github.com/propertyops/rentledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	LeaseHandler       *handler.LeaseHandler
	BillingHandler     *handler.BillingHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimiddleware.Recoverer)

	// Health and introspection endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Leases
		r.Route("/leases", func(r chi.Router) {
			r.Post("/", cfg.LeaseHandler.Create)
			r.Get("/", cfg.LeaseHandler.List)
			r.Get("/{id}", cfg.LeaseHandler.Get)
			r.Get("/{id}/statement", cfg.LeaseHandler.Statement)
			r.Get("/{id}/charges", cfg.BillingHandler.ListCharges)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Post("/{id}/void", cfg.TransactionHandler.Void)
			r.Post("/{id}/mark-paid", cfg.TransactionHandler.MarkPaid)
			r.Post("/{id}/payments", cfg.TransactionHandler.RecordPayment)
			r.Get("/{id}/payments", cfg.TransactionHandler.ListPayments)
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Post("/{id}/reverse", cfg.TransactionHandler.ReversePayment)
		})

		// Recurring charges
		r.Route("/charges", func(r chi.Router) {
			r.Post("/", cfg.BillingHandler.CreateCharge)
		})

		// Billing
		r.Post("/billing/run", cfg.BillingHandler.Run)
	})

	return r
}
