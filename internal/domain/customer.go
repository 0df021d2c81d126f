package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer represents a credit customer
type Customer struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Surname         string          `json:"surname" db:"surname"`
	CreditLimit     decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	UsedCreditLimit decimal.Decimal `json:"used_credit_limit" db:"used_credit_limit"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// AvailableCreditLimit is the portion of the credit limit not consumed
// by outstanding loans.
func (c *Customer) AvailableCreditLimit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedCreditLimit)
}

type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required"`
	Surname     string          `json:"surname" validate:"required"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"required"`
	Username    string          `json:"username" validate:"required"`
	Password    string          `json:"password" validate:"required"`
}
