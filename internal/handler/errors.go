package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/crediq/loan-api/pkg/errors"
	"github.com/crediq/loan-api/pkg/response"
)

// writeError maps business error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	message := err.Error()
	var be *apperrors.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInsufficientCredit, apperrors.ErrCodeUsernameTaken:
		response.BadRequest(w, message, err)
	case apperrors.ErrCodeCustomerNotFound, apperrors.ErrCodeLoanNotFound:
		response.NotFound(w, message)
	case apperrors.ErrCodeAccessDenied:
		response.Forbidden(w, message)
	case apperrors.ErrCodeInvalidCredentials:
		response.Unauthorized(w, message)
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}
