package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanInstallment is one scheduled repayment of a loan. PaidAmount and
// PaymentDate stay null until the installment is settled; once IsPaid is
// set the row is never mutated again.
type LoanInstallment struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	LoanID      uuid.UUID        `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal  `json:"amount" db:"amount"`
	PaidAmount  *decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	DueDate     time.Time        `json:"due_date" db:"due_date"`
	PaymentDate *time.Time       `json:"payment_date" db:"payment_date"`
	IsPaid      bool             `json:"is_paid" db:"is_paid"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
