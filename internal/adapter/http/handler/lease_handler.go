package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propertyops/rentledger/internal/adapter/http/dto"
	"github.com/propertyops/rentledger/internal/usecase"
)

// LeaseHandler handles lease-related HTTP requests.
type LeaseHandler struct {
	leaseUC     *usecase.LeaseUseCase
	statementUC *usecase.StatementUseCase
}

// NewLeaseHandler creates a new LeaseHandler.
func NewLeaseHandler(leaseUC *usecase.LeaseUseCase, statementUC *usecase.StatementUseCase) *LeaseHandler {
	return &LeaseHandler{
		leaseUC:     leaseUC,
		statementUC: statementUC,
	}
}

// Create creates a new lease.
func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	lease, err := h.leaseUC.CreateLease(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create lease", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.LeaseFromDomain(lease))
}

// Get retrieves a lease by ID.
func (h *LeaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing lease ID", "")
		return
	}

	lease, err := h.leaseUC.GetLease(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get lease", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LeaseFromDomain(lease))
}

// List lists leases.
func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	leases, err := h.leaseUC.ListLeases(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list leases", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LeasesFromDomain(leases))
}

// Statement returns billed, collected, and outstanding totals for a lease.
func (h *LeaseHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing lease ID", "")
		return
	}

	statement, err := h.statementUC.StatementForLease(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to build statement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
