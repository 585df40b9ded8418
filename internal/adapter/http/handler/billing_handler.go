package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propertyops/rentledger/internal/adapter/http/dto"
	"github.com/propertyops/rentledger/internal/usecase"
)

// BillingHandler handles recurring charge HTTP requests.
type BillingHandler struct {
	billingUC *usecase.BillingUseCase
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingUC *usecase.BillingUseCase) *BillingHandler {
	return &BillingHandler{billingUC: billingUC}
}

// CreateCharge registers a new recurring charge for a lease.
func (h *BillingHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	charge, err := h.billingUC.CreateCharge(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create charge", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ChargeFromDomain(charge))
}

// ListCharges lists recurring charges for a lease.
func (h *BillingHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	leaseID := chi.URLParam(r, "id")
	if leaseID == "" {
		writeError(w, http.StatusBadRequest, "missing lease ID", "")
		return
	}

	charges, err := h.billingUC.ListCharges(r.Context(), leaseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list charges", err.Error())
		return
	}

	responses := make([]dto.ChargeResponse, len(charges))
	for i, c := range charges {
		responses[i] = dto.ChargeFromDomain(c)
	}
	writeJSON(w, http.StatusOK, responses)
}

// Run triggers an immediate billing run over all due charges.
func (h *BillingHandler) Run(w http.ResponseWriter, r *http.Request) {
	billed, err := h.billingUC.RunDueCharges(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "billing run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BillingRunResponse{Billed: billed})
}
