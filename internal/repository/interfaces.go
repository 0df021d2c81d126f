package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crediq/loan-api/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)

	// GetByUserID retrieves the customer linked to a login account
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Customer, error)

	// Update updates a customer
	Update(ctx context.Context, customer *domain.Customer) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByCustomerID retrieves all loans of a customer
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// CreateBatch creates installment schedule entries
	CreateBatch(ctx context.Context, installments []*domain.LoanInstallment) error

	// GetByLoanID retrieves all installments of a loan ordered by due date
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanInstallment, error)

	// GetUnpaidByLoanID retrieves unpaid installments ordered by due date ascending
	GetUnpaidByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanInstallment, error)

	// UpdateBatch persists settlement state for the given installments
	UpdateBatch(ctx context.Context, installments []*domain.LoanInstallment) error

	// GetOverdue retrieves unpaid installments due before asOf, across all loans
	GetOverdue(ctx context.Context, asOf time.Time) ([]*domain.LoanInstallment, error)
}

// UserRepository defines the interface for login account data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// Stores bundles the repositories participating in one unit of work.
type Stores struct {
	Customers    CustomerRepository
	Loans        LoanRepository
	Installments InstallmentRepository
	Users        UserRepository
}

// UnitOfWork runs a function against transaction-bound stores. Either
// every write inside fn commits, or none of them do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}
