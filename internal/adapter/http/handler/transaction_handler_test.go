package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/propertyops/rentledger/internal/adapter/http/dto"
	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
	"github.com/propertyops/rentledger/internal/usecase/mocks"
)

type handlerFixture struct {
	txnRepo   *mocks.MockTransactionRepository
	payRepo   *mocks.MockPaymentRepository
	leaseRepo *mocks.MockLeaseRepository
	router    *chi.Mux
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		txnRepo:   mocks.NewMockTransactionRepository(),
		payRepo:   mocks.NewMockPaymentRepository(),
		leaseRepo: mocks.NewMockLeaseRepository(),
	}

	clock := mocks.NewMockClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(), f.txnRepo, f.payRepo, f.leaseRepo,
		mocks.NewMockOutboxRepository(), mocks.NewMockAuditRepository(),
		mocks.NewMockCache(), mocks.NewMockIDGenerator(), clock, nil, zerolog.Nop(),
	)
	h := NewTransactionHandler(uc, clock)

	f.router = chi.NewRouter()
	f.router.Post("/transactions", h.Create)
	f.router.Get("/transactions", h.List)
	f.router.Get("/transactions/{id}", h.Get)
	f.router.Post("/transactions/{id}/void", h.Void)
	f.router.Post("/transactions/{id}/mark-paid", h.MarkPaid)
	f.router.Post("/transactions/{id}/payments", h.RecordPayment)
	f.router.Get("/transactions/{id}/payments", h.ListPayments)
	f.router.Post("/payments/{id}/reverse", h.ReversePayment)

	return f
}

func (f *handlerFixture) seedLease() {
	f.leaseRepo.Create(context.Background(), &domain.Lease{
		ID:         "lease-1",
		PropertyID: "prop-1",
		UnitID:     "unit-1",
		TenantID:   "tenant-1",
		RentAmount: decimal.NewFromInt(1200),
		Currency:   "USD",
		BillingDay: 1,
		Active:     true,
	})
}

func (f *handlerFixture) seedTransaction(balance int64, status domain.Status) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f.txnRepo.Create(context.Background(), nil, &domain.Transaction{
		ID:       "txn-1",
		LeaseID:  "lease-1",
		Type:     domain.TypeInvoice,
		Category: "rent",
		Amount:   decimal.NewFromInt(1000),
		Balance:  decimal.NewFromInt(balance),
		Currency: "USD",
		Status:   status,
		DueDate:  &due,
	})
}

func (f *handlerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestTransactionHandler_Create(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedLease()

	rec := f.do(http.MethodPost, "/transactions", map[string]any{
		"lease_id": "lease-1",
		"type":     "INVOICE",
		"category": "rent",
		"amount":   "1234.50",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "OPEN" {
		t.Errorf("status = %s, want OPEN", resp.Status)
	}
	if resp.DisplayAmount != "$1,234.50" {
		t.Errorf("display amount = %q, want $1,234.50", resp.DisplayAmount)
	}
	if resp.Currency != "USD" {
		t.Errorf("currency = %s, want USD", resp.Currency)
	}
}

func TestTransactionHandler_Create_NumericAmount(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedLease()

	rec := f.do(http.MethodPost, "/transactions", map[string]any{
		"lease_id": "lease-1",
		"type":     "CHARGE",
		"category": "maintenance",
		"amount":   99.95,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
}

func TestTransactionHandler_Create_MalformedAmount(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedLease()

	rec := f.do(http.MethodPost, "/transactions", map[string]any{
		"lease_id": "lease-1",
		"type":     "INVOICE",
		"category": "rent",
		"amount":   "not-money",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/transactions/missing", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTransactionHandler_Get_OverdueFlag(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedTransaction(400, domain.StatusOpen)

	rec := f.do(http.MethodGet, "/transactions/txn-1", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Overdue {
		t.Error("open transaction due 2025-06-01 read at 2025-06-15 should be overdue")
	}
	if resp.Progress.Percentage != "60" {
		t.Errorf("percentage = %s, want 60", resp.Progress.Percentage)
	}
}

func TestTransactionHandler_Void(t *testing.T) {
	t.Run("without reason returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedTransaction(1000, domain.StatusOpen)

		rec := f.do(http.MethodPost, "/transactions/txn-1/void", map[string]any{"reason": "   "})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		stored, _ := f.txnRepo.GetByID(context.Background(), "txn-1")
		if stored.Status != domain.StatusOpen {
			t.Errorf("rejected void changed status to %s", stored.Status)
		}
	})

	t.Run("with reason voids the transaction", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedTransaction(1000, domain.StatusOpen)

		rec := f.do(http.MethodPost, "/transactions/txn-1/void", map[string]any{"reason": "entered twice"})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}

		var resp dto.TransactionResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Status != "VOID" {
			t.Errorf("status = %s, want VOID", resp.Status)
		}
		if resp.VoidReason == nil || *resp.VoidReason != "entered twice" {
			t.Errorf("void reason = %v", resp.VoidReason)
		}
	})

	t.Run("voiding a void transaction returns 409", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedTransaction(1000, domain.StatusVoid)

		rec := f.do(http.MethodPost, "/transactions/txn-1/void", map[string]any{"reason": "again"})

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}

func TestTransactionHandler_RecordPayment(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedTransaction(1000, domain.StatusOpen)

		rec := f.do(http.MethodPost, "/transactions/txn-1/payments", map[string]any{
			"amount": "400",
			"method": "bank_transfer",
		})

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
		}

		var resp dto.PaymentResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Method != "BANK_TRANSFER" {
			t.Errorf("method = %s, want BANK_TRANSFER", resp.Method)
		}
		if resp.DisplayAmount != "$400.00" {
			t.Errorf("display amount = %q, want $400.00", resp.DisplayAmount)
		}

		stored, _ := f.txnRepo.GetByID(context.Background(), "txn-1")
		if stored.Balance.String() != "600" {
			t.Errorf("balance = %s, want 600", stored.Balance)
		}
	})

	t.Run("overpayment returns 400", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedTransaction(300, domain.StatusOpen)

		rec := f.do(http.MethodPost, "/transactions/txn-1/payments", map[string]any{"amount": "500"})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTransactionHandler_ReversePayment(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedTransaction(600, domain.StatusOpen)
	f.payRepo.Create(context.Background(), nil, &domain.Payment{
		ID:            "pay-1",
		TransactionID: "txn-1",
		Amount:        decimal.NewFromInt(400),
		Currency:      "USD",
		Method:        domain.MethodCash,
	})

	rec := f.do(http.MethodPost, "/payments/pay-1/reverse", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	stored, _ := f.txnRepo.GetByID(context.Background(), "txn-1")
	if stored.Balance.String() != "1000" {
		t.Errorf("balance = %s, want 1000", stored.Balance)
	}
}
