package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/crediq/loan-api/internal/domain"
	"github.com/crediq/loan-api/internal/repository"
	apperrors "github.com/crediq/loan-api/pkg/errors"
	"github.com/crediq/loan-api/pkg/utils"
)

// Messages returned in PayLoanResult. Failure wording is never overwritten
// by success wording; the early-discount notice beats the fully-paid one.
const (
	MsgLoanAlreadyPaid       = "This loan has already been fully paid."
	MsgNoUnpaidInstallments  = "No unpaid installments found for this loan."
	MsgNoPayableInstallments = "No installments are currently payable within the 3-month payment window."
	MsgEarlyPaymentDiscount  = "An early payment discount was applied to your payment."
	MsgLoanFullyPaid         = "Loan has been fully paid."
)

const (
	msgInsufficientPrincipalFmt = "Payment amount is insufficient to cover the principal of the first due installment (Amount: %s)."
	msgInsufficientTotalDueFmt  = "Payment amount is insufficient to cover the first due installment including any applicable penalty/discount (Total Due: %s)."
)

var (
	dailyAdjustmentRate = decimal.RequireFromString(domain.DailyAdjustmentRate)
	minInterestRate     = decimal.RequireFromString(domain.MinInterestRate)
	maxInterestRate     = decimal.RequireFromString(domain.MaxInterestRate)
)

// LoanService handles loan origination, listing and payment allocation.
type LoanService struct {
	uow      repository.UnitOfWork
	stores   repository.Stores
	cache    *redis.Client
	cacheTTL time.Duration

	now func() time.Time
}

func NewLoanService(uow repository.UnitOfWork, stores repository.Stores, cache *redis.Client, cacheTTL time.Duration) *LoanService {
	return &LoanService{
		uow:      uow,
		stores:   stores,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// CreateLoan originates a loan: validates the request, checks the
// customer's available credit, generates the installment schedule and
// debits the used credit limit, all in one transaction.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.LoanInstallment, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, apperrors.WrapValidation("Loan amount must be positive.")
	}
	if request.InterestRate.LessThan(minInterestRate) || request.InterestRate.GreaterThan(maxInterestRate) {
		return nil, nil, apperrors.WrapValidation("Interest rate must be between 0.1 and 0.5.")
	}
	if !domain.IsAllowedInstallmentCount(request.NumberOfInstallments) {
		return nil, nil, apperrors.WrapValidation("Number of installments must be 6, 9, 12, or 24.")
	}

	var (
		loan         *domain.Loan
		installments []*domain.LoanInstallment
	)

	err := s.uow.Do(ctx, func(st repository.Stores) error {
		customer, err := st.Customers.GetByID(ctx, request.CustomerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapCustomerNotFound(request.CustomerID.String())
			}
			return apperrors.WrapDatabaseError(err)
		}

		totalPayable := utils.CalculateTotalPayable(request.Amount, request.InterestRate)
		available := customer.AvailableCreditLimit()
		if available.LessThan(totalPayable) {
			return apperrors.WrapInsufficientCredit(available.StringFixed(2), totalPayable.StringFixed(2))
		}

		createDate := utils.DateOnly(s.now())
		loan = &domain.Loan{
			ID:                   uuid.New(),
			CustomerID:           customer.ID,
			LoanAmount:           request.Amount,
			NumberOfInstallments: request.NumberOfInstallments,
			CreateDate:           createDate,
			IsPaid:               false,
			CreatedAt:            s.now(),
			UpdatedAt:            s.now(),
		}

		installmentAmount := utils.CalculateInstallmentAmount(totalPayable, request.NumberOfInstallments)
		firstDueDate := utils.FirstDayOfNextMonth(createDate)

		installments = make([]*domain.LoanInstallment, 0, request.NumberOfInstallments)
		for i := 0; i < request.NumberOfInstallments; i++ {
			installments = append(installments, &domain.LoanInstallment{
				ID:        uuid.New(),
				LoanID:    loan.ID,
				Amount:    installmentAmount,
				DueDate:   firstDueDate.AddDate(0, i, 0),
				IsPaid:    false,
				CreatedAt: s.now(),
			})
		}

		if err := st.Loans.Create(ctx, loan); err != nil {
			return apperrors.WrapDatabaseError(err)
		}
		if err := st.Installments.CreateBatch(ctx, installments); err != nil {
			return apperrors.WrapDatabaseError(err)
		}

		customer.UsedCreditLimit = customer.UsedCreditLimit.Add(totalPayable)
		if err := st.Customers.Update(ctx, customer); err != nil {
			return apperrors.WrapDatabaseError(err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return loan, installments, nil
}

// ListLoansByCustomer returns all loans of a customer after the caller is
// authorized for that customer.
func (s *LoanService) ListLoansByCustomer(ctx context.Context, customerID uuid.UUID, identity domain.Identity) ([]*domain.Loan, error) {
	if err := AuthorizeCustomerAccess(ctx, s.stores, identity, customerID, AccessViewLoans); err != nil {
		return nil, err
	}

	if _, err := s.stores.Customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapCustomerNotFound(customerID.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	loans, err := s.stores.Loans.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loans, nil
}

// ListInstallmentsByLoan returns the full installment schedule of a loan
// after the caller is authorized for the loan's owner.
func (s *LoanService) ListInstallmentsByLoan(ctx context.Context, loanID uuid.UUID, identity domain.Identity) ([]*domain.LoanInstallment, error) {
	loan, err := s.stores.Loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapLoanNotFound(loanID.String())
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if err := AuthorizeLoanAccess(ctx, s.stores, identity, loan, AccessViewInstallments); err != nil {
		return nil, err
	}

	if cached, ok := s.cachedInstallments(ctx, loanID); ok {
		return cached, nil
	}

	installments, err := s.stores.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.cacheInstallments(ctx, loanID, installments)

	return installments, nil
}

// PayLoan allocates a payment to the loan's unpaid installments, earliest
// due date first, whole installments only. Installments due beyond the
// 3-calendar-month window are untouchable. Each settled installment is
// priced at its scheduled amount less 0.1% per day of early payment or
// plus 0.1% per day of late payment. Insufficient funds is a normal
// outcome, not an error, and performs no writes.
func (s *LoanService) PayLoan(ctx context.Context, loanID uuid.UUID, paymentAmount decimal.Decimal, identity domain.Identity) (*domain.PayLoanResult, error) {
	var result *domain.PayLoanResult

	err := s.uow.Do(ctx, func(st repository.Stores) error {
		loan, err := st.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.WrapLoanNotFound(loanID.String())
			}
			return apperrors.WrapDatabaseError(err)
		}

		if err := AuthorizeLoanAccess(ctx, st, identity, loan, AccessPayLoan); err != nil {
			return err
		}

		if paymentAmount.LessThanOrEqual(decimal.Zero) {
			return apperrors.WrapValidation("Payment amount must be a positive value.")
		}

		if loan.IsPaid {
			result = &domain.PayLoanResult{
				InstallmentsPaid:     0,
				TotalAmountSpent:     decimal.Zero,
				IsLoanPaidCompletely: true,
				Message:              MsgLoanAlreadyPaid,
			}
			return nil
		}

		unpaid, err := st.Installments.GetUnpaidByLoanID(ctx, loanID)
		if err != nil {
			return apperrors.WrapDatabaseError(err)
		}
		if len(unpaid) == 0 {
			result = &domain.PayLoanResult{
				InstallmentsPaid:     0,
				TotalAmountSpent:     decimal.Zero,
				IsLoanPaidCompletely: loan.IsPaid,
				Message:              MsgNoUnpaidInstallments,
			}
			return nil
		}

		today := utils.DateOnly(s.now())
		windowEnd := utils.AddMonthsClamped(today, domain.PaymentWindowMonths)

		remaining := paymentAmount
		totalSpent := decimal.Zero
		paidCount := 0
		discountApplied := false
		message := ""
		var toUpdate []*domain.LoanInstallment

		for _, installment := range unpaid {
			dueDate := utils.DateOnly(installment.DueDate)
			if dueDate.After(windowEnd) {
				if paidCount == 0 {
					message = MsgNoPayableInstallments
				}
				break
			}

			price := settlementPrice(installment.Amount, dueDate, today)

			if remaining.GreaterThanOrEqual(price) {
				paidAmount := price
				paymentDate := today
				installment.IsPaid = true
				installment.PaidAmount = &paidAmount
				installment.PaymentDate = &paymentDate
				toUpdate = append(toUpdate, installment)

				remaining = remaining.Sub(price)
				totalSpent = totalSpent.Add(price)
				paidCount++
				if today.Before(dueDate) {
					discountApplied = true
				}
				continue
			}

			// Whole installments only: a payment that cannot cover the
			// settlement price pays nothing toward it and stops here.
			if paidCount == 0 {
				if remaining.LessThan(installment.Amount) && price.LessThanOrEqual(installment.Amount) {
					message = fmt.Sprintf(msgInsufficientPrincipalFmt, installment.Amount.StringFixed(2))
				} else {
					message = fmt.Sprintf(msgInsufficientTotalDueFmt, price.StringFixed(2))
				}
			}
			break
		}

		nowFullyPaid := loan.IsPaid
		if paidCount > 0 {
			if err := st.Installments.UpdateBatch(ctx, toUpdate); err != nil {
				return apperrors.WrapDatabaseError(err)
			}

			customer, err := st.Customers.GetByID(ctx, loan.CustomerID)
			if err != nil {
				return apperrors.WrapDatabaseError(err)
			}
			customer.UsedCreditLimit = customer.UsedCreditLimit.Sub(totalSpent)
			if err := st.Customers.Update(ctx, customer); err != nil {
				return apperrors.WrapDatabaseError(err)
			}

			stillUnpaid, err := st.Installments.GetUnpaidByLoanID(ctx, loanID)
			if err != nil {
				return apperrors.WrapDatabaseError(err)
			}
			if len(stillUnpaid) == 0 {
				loan.IsPaid = true
				if err := st.Loans.Update(ctx, loan); err != nil {
					return apperrors.WrapDatabaseError(err)
				}
				nowFullyPaid = true
			}
		}

		if discountApplied && paidCount > 0 {
			message = MsgEarlyPaymentDiscount
		} else if nowFullyPaid && !strings.Contains(strings.ToLower(message), "insufficient") {
			message = MsgLoanFullyPaid
		}

		result = &domain.PayLoanResult{
			InstallmentsPaid:     paidCount,
			TotalAmountSpent:     totalSpent,
			IsLoanPaidCompletely: nowFullyPaid,
			Message:              message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.InstallmentsPaid > 0 {
		s.invalidateInstallmentCache(ctx, loanID)
	}

	return result, nil
}

// settlementPrice is the amount actually owed for one installment when it
// is settled on payDate, rounded half-up to cents.
func settlementPrice(scheduled decimal.Decimal, dueDate, payDate time.Time) decimal.Decimal {
	switch {
	case payDate.Before(dueDate):
		days := decimal.NewFromInt(int64(utils.DaysBetween(payDate, dueDate)))
		discount := scheduled.Mul(dailyAdjustmentRate).Mul(days)
		return scheduled.Sub(discount).Round(2)
	case payDate.After(dueDate):
		days := decimal.NewFromInt(int64(utils.DaysBetween(dueDate, payDate)))
		penalty := scheduled.Mul(dailyAdjustmentRate).Mul(days)
		return scheduled.Add(penalty).Round(2)
	default:
		return scheduled
	}
}

func installmentCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s:installments", loanID)
}

func (s *LoanService) cachedInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanInstallment, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, installmentCacheKey(loanID)).Bytes()
	if err != nil {
		return nil, false
	}

	var installments []*domain.LoanInstallment
	if err := json.Unmarshal(payload, &installments); err != nil {
		return nil, false
	}

	return installments, true
}

func (s *LoanService) cacheInstallments(ctx context.Context, loanID uuid.UUID, installments []*domain.LoanInstallment) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(installments)
	if err != nil {
		return
	}

	s.cache.Set(ctx, installmentCacheKey(loanID), payload, s.cacheTTL)
}

func (s *LoanService) invalidateInstallmentCache(ctx context.Context, loanID uuid.UUID) {
	if s.cache == nil {
		return
	}

	s.cache.Del(ctx, installmentCacheKey(loanID))
}
