package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crediq/loan-api/internal/domain"
)

type loanRepository struct {
	db Querier
}

func NewLoanRepository(db Querier) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, customer_id, loan_amount, number_of_installments, create_date, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.CustomerID,
		loan.LoanAmount,
		loan.NumberOfInstallments,
		loan.CreateDate,
		loan.IsPaid,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, customer_id, loan_amount, number_of_installments, create_date, is_paid, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, customer_id, loan_amount, number_of_installments, create_date, is_paid, created_at, updated_at
		FROM loans
		WHERE customer_id = $1
		ORDER BY create_date
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, customerID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET is_paid = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loan.ID, loan.IsPaid, time.Now())
	return err
}
