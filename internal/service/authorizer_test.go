package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
	"github.com/crediq/loan-api/tests/mocks"
)

func newAuthorizerStores() (repository.Stores, *mocks.MockCustomerRepository, *mocks.MockUserRepository) {
	customers := &mocks.MockCustomerRepository{}
	users := &mocks.MockUserRepository{}
	return repository.Stores{Customers: customers, Users: users}, customers, users
}

func TestAuthorizeCustomerAccess_AdminBypassesLookups(t *testing.T) {
	stores, customers, users := newAuthorizerStores()

	err := AuthorizeCustomerAccess(context.Background(), stores, adminIdentity, uuid.New(), AccessViewLoans)

	assert.NoError(t, err)
	users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	customers.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestAuthorizeCustomerAccess_OwnRecord(t *testing.T) {
	stores, customers, users := newAuthorizerStores()

	user := &domain.User{ID: uuid.New(), Username: "jane", Role: domain.RoleCustomer}
	own := &domain.Customer{ID: uuid.New(), UserID: user.ID}
	users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)
	customers.On("GetByUserID", mock.Anything, user.ID).Return(own, nil)

	identity := domain.Identity{Username: "jane", Role: domain.RoleCustomer}
	err := AuthorizeCustomerAccess(context.Background(), stores, identity, own.ID, AccessViewLoans)

	assert.NoError(t, err)
}

func TestAuthorizeCustomerAccess_ForeignRecordDenied(t *testing.T) {
	stores, customers, users := newAuthorizerStores()

	user := &domain.User{ID: uuid.New(), Username: "jane", Role: domain.RoleCustomer}
	own := &domain.Customer{ID: uuid.New(), UserID: user.ID}
	users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)
	customers.On("GetByUserID", mock.Anything, user.ID).Return(own, nil)

	identity := domain.Identity{Username: "jane", Role: domain.RoleCustomer}
	err := AuthorizeCustomerAccess(context.Background(), stores, identity, uuid.New(), AccessViewLoans)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAccessDenied, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "not authorized to view loans for this customer")
}

func TestAuthorizeLoanAccess_DenialMessagePerOperation(t *testing.T) {
	tests := []struct {
		name    string
		kind    AccessKind
		message string
	}{
		{
			name:    "view installments",
			kind:    AccessViewInstallments,
			message: "You are not authorized to view installments for this loan.",
		},
		{
			name:    "pay loan",
			kind:    AccessPayLoan,
			message: "You are not authorized to make a payment for this loan.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, customers, users := newAuthorizerStores()

			user := &domain.User{ID: uuid.New(), Username: "jane", Role: domain.RoleCustomer}
			own := &domain.Customer{ID: uuid.New(), UserID: user.ID}
			users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)
			customers.On("GetByUserID", mock.Anything, user.ID).Return(own, nil)

			loan := &domain.Loan{ID: uuid.New(), CustomerID: uuid.New()}
			identity := domain.Identity{Username: "jane", Role: domain.RoleCustomer}

			err := AuthorizeLoanAccess(context.Background(), stores, identity, loan, tt.kind)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestAuthorizeLoanAccess_MissingUserIsDataIntegrityFault(t *testing.T) {
	stores, _, users := newAuthorizerStores()

	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

	loan := &domain.Loan{ID: uuid.New(), CustomerID: uuid.New()}
	identity := domain.Identity{Username: "ghost", Role: domain.RoleCustomer}

	err := AuthorizeLoanAccess(context.Background(), stores, identity, loan, AccessPayLoan)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDataIntegrity, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Authenticated user not found: ghost")
}

func TestAuthorizeLoanAccess_MissingCustomerIsDataIntegrityFault(t *testing.T) {
	stores, customers, users := newAuthorizerStores()

	user := &domain.User{ID: uuid.New(), Username: "jane", Role: domain.RoleCustomer}
	users.On("GetByUsername", mock.Anything, "jane").Return(user, nil)
	customers.On("GetByUserID", mock.Anything, user.ID).Return(nil, sql.ErrNoRows)

	loan := &domain.Loan{ID: uuid.New(), CustomerID: uuid.New()}
	identity := domain.Identity{Username: "jane", Role: domain.RoleCustomer}

	err := AuthorizeLoanAccess(context.Background(), stores, identity, loan, AccessViewInstallments)

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDataIntegrity, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Customer record not found for the logged-in user")
}
