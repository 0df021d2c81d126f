package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
	"github.com/crediq/loan-api/tests/mocks"
)

func newTestCustomerService() (*CustomerService, *mocks.MockCustomerRepository, *mocks.MockUserRepository) {
	customers := &mocks.MockCustomerRepository{}
	users := &mocks.MockUserRepository{}
	stores := repository.Stores{Customers: customers, Users: users}
	return NewCustomerService(&mocks.StubUnitOfWork{Stores: stores}, stores), customers, users
}

func TestCreateCustomer_Success(t *testing.T) {
	service, customers, users := newTestCustomerService()

	users.On("GetByUsername", mock.Anything, "jane").Return(nil, sql.ErrNoRows)

	var createdUser *domain.User
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		createdUser = u
		return u.Username == "jane" && u.Role == domain.RoleCustomer
	})).Return(nil)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Name == "Jane" && c.Surname == "Doe" &&
			c.CreditLimit.Equal(decimal.NewFromInt(10000)) &&
			c.UsedCreditLimit.Equal(decimal.Zero)
	})).Return(nil)

	request := &domain.CreateCustomerRequest{
		Name:        "Jane",
		Surname:     "Doe",
		CreditLimit: decimal.NewFromInt(10000),
		Username:    "jane",
		Password:    "secret123",
	}

	customer, err := service.CreateCustomer(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, createdUser.ID, customer.UserID)
	// The stored hash must verify against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte("secret123")))

	users.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestCreateCustomer_UsernameTaken(t *testing.T) {
	service, customers, users := newTestCustomerService()

	existing := &domain.User{Username: "jane"}
	users.On("GetByUsername", mock.Anything, "jane").Return(existing, nil)

	request := &domain.CreateCustomerRequest{
		Name:        "Jane",
		Surname:     "Doe",
		CreditLimit: decimal.NewFromInt(10000),
		Username:    "jane",
		Password:    "secret123",
	}

	customer, err := service.CreateCustomer(context.Background(), request)

	assert.Error(t, err)
	assert.Nil(t, customer)
	assert.Equal(t, apperrors.ErrCodeUsernameTaken, apperrors.CodeOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCustomer_Validation(t *testing.T) {
	valid := domain.CreateCustomerRequest{
		Name:        "Jane",
		Surname:     "Doe",
		CreditLimit: decimal.NewFromInt(10000),
		Username:    "jane",
		Password:    "secret123",
	}

	tests := []struct {
		name          string
		mutate        func(r *domain.CreateCustomerRequest)
		errorContains string
	}{
		{
			name:          "blank first name",
			mutate:        func(r *domain.CreateCustomerRequest) { r.Name = "   " },
			errorContains: "Customer first name cannot be blank",
		},
		{
			name:          "blank surname",
			mutate:        func(r *domain.CreateCustomerRequest) { r.Surname = "" },
			errorContains: "Customer surname cannot be blank",
		},
		{
			name:          "negative credit limit",
			mutate:        func(r *domain.CreateCustomerRequest) { r.CreditLimit = decimal.NewFromInt(-1) },
			errorContains: "Credit limit cannot be negative",
		},
		{
			name:          "blank username",
			mutate:        func(r *domain.CreateCustomerRequest) { r.Username = "" },
			errorContains: "Username cannot be blank",
		},
		{
			name:          "blank password",
			mutate:        func(r *domain.CreateCustomerRequest) { r.Password = " " },
			errorContains: "Password cannot be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, users := newTestCustomerService()

			request := valid
			tt.mutate(&request)

			_, err := service.CreateCustomer(context.Background(), &request)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
			users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
		})
	}
}
