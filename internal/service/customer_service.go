package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
)

// CustomerService handles customer and login account creation.
type CustomerService struct {
	uow    repository.UnitOfWork
	stores repository.Stores

	now func() time.Time
}

func NewCustomerService(uow repository.UnitOfWork, stores repository.Stores) *CustomerService {
	return &CustomerService{
		uow:    uow,
		stores: stores,
		now:    time.Now,
	}
}

// CreateCustomer creates a customer together with its CUSTOMER-role login
// account in one transaction. New customers start with zero used credit.
func (s *CustomerService) CreateCustomer(ctx context.Context, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if strings.TrimSpace(request.Name) == "" {
		return nil, apperrors.WrapValidation("Customer first name cannot be blank.")
	}
	if strings.TrimSpace(request.Surname) == "" {
		return nil, apperrors.WrapValidation("Customer surname cannot be blank.")
	}
	if request.CreditLimit.IsNegative() {
		return nil, apperrors.WrapValidation("Credit limit cannot be negative.")
	}
	if strings.TrimSpace(request.Username) == "" {
		return nil, apperrors.WrapValidation("Username cannot be blank.")
	}
	if strings.TrimSpace(request.Password) == "" {
		return nil, apperrors.WrapValidation("Password cannot be blank.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var customer *domain.Customer

	err = s.uow.Do(ctx, func(st repository.Stores) error {
		_, err := st.Users.GetByUsername(ctx, request.Username)
		if err == nil {
			return apperrors.WrapUsernameTaken(request.Username)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return apperrors.WrapDatabaseError(err)
		}

		user := &domain.User{
			ID:           uuid.New(),
			Username:     request.Username,
			PasswordHash: string(hashedPassword),
			Role:         domain.RoleCustomer,
			CreatedAt:    s.now(),
		}
		if err := st.Users.Create(ctx, user); err != nil {
			return apperrors.WrapDatabaseError(err)
		}

		customer = &domain.Customer{
			ID:              uuid.New(),
			Name:            request.Name,
			Surname:         request.Surname,
			CreditLimit:     request.CreditLimit,
			UsedCreditLimit: decimal.Zero,
			UserID:          user.ID,
			CreatedAt:       s.now(),
			UpdatedAt:       s.now(),
		}
		if err := st.Customers.Create(ctx, customer); err != nil {
			return apperrors.WrapDatabaseError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return customer, nil
}
