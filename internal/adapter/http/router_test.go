package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/propertyops/rentledger/internal/adapter/http/handler"
	apimiddleware "github.com/propertyops/rentledger/internal/adapter/http/middleware"
	"github.com/propertyops/rentledger/internal/usecase"
	"github.com/propertyops/rentledger/internal/usecase/mocks"
)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	clock := mocks.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	transactionUC := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockTransactionRepository(),
		mocks.NewMockPaymentRepository(),
		mocks.NewMockLeaseRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockCache(),
		mocks.NewMockIDGenerator(),
		clock, nil, zerolog.Nop(),
	)
	billingUC := usecase.NewBillingUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockRecurringChargeRepository(),
		mocks.NewMockTransactionRepository(),
		mocks.NewMockLeaseRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		clock, nil, zerolog.Nop(),
	)
	leaseRepo := mocks.NewMockLeaseRepository()
	leaseUC := usecase.NewLeaseUseCase(leaseRepo, mocks.NewMockIDGenerator(), clock)
	statementUC := usecase.NewStatementUseCase(mocks.NewMockStatementRepository(), leaseRepo)

	cfg := RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC, clock),
		LeaseHandler:       handler.NewLeaseHandler(leaseUC, statementUC),
		BillingHandler:     handler.NewBillingHandler(billingUC),
		HealthHandler:      &handler.HealthHandler{},
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"property_id":"prop-1","unit_id":"unit-1","tenant_id":"tenant-1","rent_amount":"1200","currency":"USD","billing_day":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/leases/",
		"GET /api/v1/leases/{id}/statement",
		"GET /api/v1/leases/{id}/charges",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/",
		"POST /api/v1/transactions/{id}/void",
		"POST /api/v1/transactions/{id}/payments",
		"POST /api/v1/payments/{id}/reverse",
		"POST /api/v1/charges/",
		"POST /api/v1/billing/run",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
