package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
)

// AccessKind identifies the operation being authorized. Each kind carries
// its own denial message so callers can surface operation-specific text.
type AccessKind int

const (
	AccessViewLoans AccessKind = iota
	AccessViewInstallments
	AccessPayLoan
)

func (k AccessKind) deniedMessage() string {
	switch k {
	case AccessViewLoans:
		return "You are not authorized to view loans for this customer."
	case AccessViewInstallments:
		return "You are not authorized to view installments for this loan."
	case AccessPayLoan:
		return "You are not authorized to make a payment for this loan."
	default:
		return "You are not authorized to perform this operation."
	}
}

// AuthorizeCustomerAccess allows admins through unconditionally and
// customers only when the target customer record is their own.
func AuthorizeCustomerAccess(ctx context.Context, s repository.Stores, identity domain.Identity, customerID uuid.UUID, kind AccessKind) error {
	if identity.IsAdmin() {
		return nil
	}

	own, err := resolveOwnCustomer(ctx, s, identity)
	if err != nil {
		return err
	}

	if own.ID != customerID {
		return apperrors.WrapAccessDenied(kind.deniedMessage())
	}

	return nil
}

// AuthorizeLoanAccess allows admins through unconditionally and customers
// only when they own the loan's customer record.
func AuthorizeLoanAccess(ctx context.Context, s repository.Stores, identity domain.Identity, loan *domain.Loan, kind AccessKind) error {
	if identity.IsAdmin() {
		return nil
	}

	own, err := resolveOwnCustomer(ctx, s, identity)
	if err != nil {
		return err
	}

	if own.ID != loan.CustomerID {
		return apperrors.WrapAccessDenied(kind.deniedMessage())
	}

	return nil
}

// resolveOwnCustomer looks up the customer record linked to the caller's
// login. An authenticated caller without a user or customer row is a
// data-integrity fault, not a permission fault.
func resolveOwnCustomer(ctx context.Context, s repository.Stores, identity domain.Identity) (*domain.Customer, error) {
	user, err := s.Users.GetByUsername(ctx, identity.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapDataIntegrity(fmt.Sprintf("Authenticated user not found: %s", identity.Username))
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	customer, err := s.Customers.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapDataIntegrity("Customer record not found for the logged-in user.")
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	return customer, nil
}
