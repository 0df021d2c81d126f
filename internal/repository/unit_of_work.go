package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Querier is the subset of sqlx satisfied by both *sqlx.DB and *sqlx.Tx,
// letting the same repository code run inside and outside a transaction.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// NewStores builds the repository set over a database handle or transaction.
func NewStores(q Querier) Stores {
	return Stores{
		Customers:    NewCustomerRepository(q),
		Loans:        NewLoanRepository(q),
		Installments: NewInstallmentRepository(q),
		Users:        NewUserRepository(q),
	}
}

type sqlUnitOfWork struct {
	db *sqlx.DB
}

// NewUnitOfWork creates a transaction boundary over the database.
func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) Do(ctx context.Context, fn func(s Stores) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(NewStores(tx)); err != nil {
		return err
	}

	return tx.Commit()
}
