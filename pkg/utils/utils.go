package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly strips the time-of-day component, keeping year/month/day in UTC.
// All due-date and payment-date math works on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// FirstDayOfNextMonth returns the first calendar day of the month following t.
func FirstDayOfNextMonth(t time.Time) time.Time {
	d := DateOnly(t)
	return time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped adds months to a date, clamping the day-of-month to the
// last day of the target month instead of rolling into the next one
// (Jan 31 + 1 month = Feb 28, not Mar 3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	d := DateOnly(t)
	firstOfTarget := time.Date(d.Year(), d.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

// CalculateTotalPayable computes principal * (1 + rate), rounded to 2 decimal places.
func CalculateTotalPayable(principal, interestRate decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromInt(1).Add(interestRate)).Round(2)
}

// CalculateInstallmentAmount splits the total payable evenly across the
// installments, rounded to 2 decimal places. Every installment carries the
// identical rounded amount; residual cents are not redistributed.
func CalculateInstallmentAmount(totalPayable decimal.Decimal, numberOfInstallments int) decimal.Decimal {
	return totalPayable.Div(decimal.NewFromInt(int64(numberOfInstallments))).Round(2)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
