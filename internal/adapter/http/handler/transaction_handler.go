package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propertyops/rentledger/internal/adapter/http/dto"
	"github.com/propertyops/rentledger/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
	clock         usecase.Clock
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase, clock usecase.Clock) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		clock:         clock,
	}
}

// Create creates a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction, h.clock.Now()))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	transaction, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction, h.clock.Now()))
}

// List lists transactions filtered by lease, status, or overdue state.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListTransactionsInput{
		LeaseID: r.URL.Query().Get("lease_id"),
		Status:  r.URL.Query().Get("status"),
		Overdue: r.URL.Query().Get("overdue") == "true",
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	transactions, err := h.transactionUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions, h.clock.Now()))
}

// Void marks a transaction void. The reason is required.
func (h *TransactionHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.VoidTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.VoidTransaction(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to void transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction, h.clock.Now()))
}

// MarkPaid settles a transaction in full.
func (h *TransactionHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	actorID := r.URL.Query().Get("actor_id")

	transaction, err := h.transactionUC.MarkPaid(r.Context(), id, actorID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to mark transaction paid", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction, h.clock.Now()))
}

// RecordPayment applies a payment against a transaction.
func (h *TransactionHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.transactionUC.RecordPayment(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// ListPayments lists payments recorded against a transaction.
func (h *TransactionHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.transactionUC.ListPayments(r.Context(), id, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list payments", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}

// ReversePayment undoes a recorded payment.
func (h *TransactionHandler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	reversedBy := r.URL.Query().Get("actor_id")

	payment, err := h.transactionUC.ReversePayment(r.Context(), usecase.ReversePaymentInput{
		PaymentID:  paymentID,
		ReversedBy: reversedBy,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse payment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}
