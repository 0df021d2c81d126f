package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business rules fixed by the lending product.
const (
	// Per-day rate applied as a discount before the due date and as a
	// penalty after it.
	DailyAdjustmentRate = "0.001"

	// Installments are payable only when due within this many calendar
	// months of the payment date.
	PaymentWindowMonths = 3

	MinInterestRate = "0.1"
	MaxInterestRate = "0.5"
)

// AllowedInstallmentCounts lists the valid loan durations.
var AllowedInstallmentCounts = []int{6, 9, 12, 24}

// IsAllowedInstallmentCount reports whether n is a valid number of installments.
func IsAllowedInstallmentCount(n int) bool {
	for _, allowed := range AllowedInstallmentCounts {
		if n == allowed {
			return true
		}
	}
	return false
}

// Loan represents an installment loan owned by a customer
type Loan struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	CustomerID           uuid.UUID       `json:"customer_id" db:"customer_id"`
	LoanAmount           decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	NumberOfInstallments int             `json:"number_of_installments" db:"number_of_installments"`
	CreateDate           time.Time       `json:"create_date" db:"create_date"`
	IsPaid               bool            `json:"is_paid" db:"is_paid"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerID           uuid.UUID       `json:"customer_id" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"required"`
	InterestRate         decimal.Decimal `json:"interest_rate" validate:"required"`
	NumberOfInstallments int             `json:"number_of_installments" validate:"required"`
}

type CreateLoanResponse struct {
	Loan         *Loan              `json:"loan"`
	Installments []*LoanInstallment `json:"installments"`
}

type PayLoanRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// PayLoanResult summarizes a payment run. Message is omitted entirely
// when there is nothing to report.
type PayLoanResult struct {
	InstallmentsPaid     int             `json:"installmentsPaid"`
	TotalAmountSpent     decimal.Decimal `json:"totalAmountSpent"`
	IsLoanPaidCompletely bool            `json:"isLoanPaidCompletely"`
	Message              string          `json:"message,omitempty"`
}
