package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientCredit  = errors.New("insufficient credit limit")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrAccessDenied        = errors.New("access denied")
	ErrDataIntegrity       = errors.New("data integrity violation")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeCustomerNotFound   = "CUSTOMER_NOT_FOUND"
	ErrCodeLoanNotFound       = "LOAN_NOT_FOUND"
	ErrCodeInsufficientCredit = "INSUFFICIENT_CREDIT_LIMIT"
	ErrCodeUsernameTaken      = "USERNAME_ALREADY_EXISTS"
	ErrCodeAccessDenied       = "ACCESS_DENIED"
	ErrCodeDataIntegrity      = "DATA_INTEGRITY_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapCustomerNotFound(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer not found with ID: %s", customerID),
		ErrCustomerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan not found with ID: %s", loanID),
		ErrLoanNotFound,
	)
}

func WrapInsufficientCredit(available, required string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientCredit,
		fmt.Sprintf("Customer does not have sufficient credit limit. Available: %s, Required: %s", available, required),
		ErrInsufficientCredit,
	)
}

func WrapUsernameTaken(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeUsernameTaken,
		fmt.Sprintf("Username already exists: %s", username),
		ErrUsernameTaken,
	)
}

func WrapAccessDenied(message string) *BusinessError {
	return NewBusinessError(ErrCodeAccessDenied, message, ErrAccessDenied)
}

func WrapDataIntegrity(message string) *BusinessError {
	return NewBusinessError(ErrCodeDataIntegrity, message, ErrDataIntegrity)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(ErrCodeInvalidCredentials, "Invalid username or password", ErrInvalidCredentials)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(ErrCodeDatabaseError, "database operation failed", err)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(ErrCodeCacheError, "Cache operation failed", err)
}

// CodeOf returns the business error code, or DATABASE_ERROR for plain errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeDatabaseError
}
