package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/metrics"
	"github.com/crediq/loan-api/internal/service"
	"github.com/crediq/loan-api/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan originates a loan for a customer. Admin only.
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	if !identity.IsAdmin() {
		response.Forbidden(w, "Only admins can create loans")
		return
	}

	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Missing required fields", err)
		return
	}

	loan, installments, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{Loan: loan, Installments: installments})
}

// ListLoans lists all loans of the customer given by the customerId query
// parameter.
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	customerID, err := uuid.Parse(r.URL.Query().Get("customerId"))
	if err != nil {
		response.BadRequest(w, "customerId query parameter must be a valid UUID", err)
		return
	}

	loans, err := h.service.ListLoansByCustomer(r.Context(), customerID, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loans)
}

// ListInstallments lists the installment schedule of a loan.
func (h *LoanHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "loanId must be a valid UUID", err)
		return
	}

	installments, err := h.service.ListInstallmentsByLoan(r.Context(), loanID, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, installments)
}

// PayLoan allocates a payment across the loan's unpaid installments.
func (h *LoanHandler) PayLoan(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "loanId must be a valid UUID", err)
		return
	}

	var request domain.PayLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	result, err := h.service.PayLoan(r.Context(), loanID, request.Amount, identity)
	if err != nil {
		metrics.PaymentOutcomes.WithLabelValues("error").Inc()
		writeError(w, err)
		return
	}

	if result.InstallmentsPaid > 0 {
		metrics.PaymentOutcomes.WithLabelValues("settled").Inc()
	} else {
		metrics.PaymentOutcomes.WithLabelValues("rejected").Inc()
	}

	response.Success(w, result)
}
