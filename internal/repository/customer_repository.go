package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crediq/loan-api/internal/domain"
)

type customerRepository struct {
	db Querier
}

func NewCustomerRepository(db Querier) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, surname, credit_limit, used_credit_limit, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Surname,
		customer.CreditLimit,
		customer.UsedCreditLimit,
		customer.UserID,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, name, surname, credit_limit, used_credit_limit, user_id, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, id)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, name, surname, credit_limit, used_credit_limit, user_id, created_at, updated_at
		FROM customers
		WHERE user_id = $1
	`

	var customer domain.Customer
	err := r.db.GetContext(ctx, &customer, query, userID)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET credit_limit = $2, used_credit_limit = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.CreditLimit,
		customer.UsedCreditLimit,
		time.Now(),
	)

	return err
}
