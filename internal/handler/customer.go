package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/service"
	"github.com/crediq/loan-api/pkg/response"
)

type CustomerHandler struct {
	service   *service.CustomerService
	validator *validator.Validate
}

func NewCustomerHandler(service *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateCustomer creates a customer with its login account. Admin only.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	if !identity.IsAdmin() {
		response.Forbidden(w, "Only admins can create customers")
		return
	}

	var request domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Missing required fields", err)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, customer)
}
