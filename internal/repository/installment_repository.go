package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crediq/loan-api/internal/domain"
)

type installmentRepository struct {
	db Querier
}

func NewInstallmentRepository(db Querier) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.LoanInstallment) error {
	query := `
		INSERT INTO loan_installments (id, loan_id, amount, paid_amount, due_date, payment_date, is_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, installment := range installments {
		_, err := r.db.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Amount,
			installment.PaidAmount,
			installment.DueDate,
			installment.PaymentDate,
			installment.IsPaid,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid, created_at
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY due_date
	`

	var installments []*domain.LoanInstallment
	err := r.db.SelectContext(ctx, &installments, query, loanID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) GetUnpaidByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid, created_at
		FROM loan_installments
		WHERE loan_id = $1 AND is_paid = false
		ORDER BY due_date
	`

	var installments []*domain.LoanInstallment
	err := r.db.SelectContext(ctx, &installments, query, loanID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) UpdateBatch(ctx context.Context, installments []*domain.LoanInstallment) error {
	query := `
		UPDATE loan_installments
		SET paid_amount = $2, payment_date = $3, is_paid = $4
		WHERE id = $1
	`

	for _, installment := range installments {
		_, err := r.db.ExecContext(ctx, query,
			installment.ID,
			installment.PaidAmount,
			installment.PaymentDate,
			installment.IsPaid,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) GetOverdue(ctx context.Context, asOf time.Time) ([]*domain.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid, created_at
		FROM loan_installments
		WHERE is_paid = false AND due_date < $1
		ORDER BY loan_id, due_date
	`

	var installments []*domain.LoanInstallment
	err := r.db.SelectContext(ctx, &installments, query, asOf)
	if err != nil {
		return nil, err
	}

	return installments, nil
}
