package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/money"
	"partnerledger-backend/internal/repository"
)

type validationService struct {
	accountRepo       repository.AccountRepository
	runRepo           repository.ValidationRunRepository
	balances          BalanceService
	ledger            LedgerService
	reportingCurrency string
	tolerance         decimal.Decimal
}

func NewValidationService(
	accountRepo repository.AccountRepository,
	runRepo repository.ValidationRunRepository,
	balances BalanceService,
	ledger LedgerService,
	reportingCurrency string,
	tolerance decimal.Decimal,
) ValidationService {
	return &validationService{
		accountRepo:       accountRepo,
		runRepo:           runRepo,
		balances:          balances,
		ledger:            ledger,
		reportingCurrency: reportingCurrency,
		tolerance:         tolerance,
	}
}

// Validate reconciles the ledger-calculated company balance against
// real-world cash positions. It is read-only; discrepancies are returned as
// data with a full breakdown, never auto-corrected.
func (s *validationService) Validate(ctx context.Context, scope domain.Scope) (*domain.ValidationResult, error) {
	realMoney := decimal.Zero
	var accounts []domain.AccountBreakdown

	banks, err := s.accountRepo.ListActiveBankAccounts(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, a := range banks {
		value, rate, err := s.toReporting(a.Currency, a.ExchangeRate, a.CurrentBalance)
		if err != nil {
			return nil, fmt.Errorf("bank account %d (%s): %w", a.ID, a.Name, err)
		}
		realMoney = realMoney.Add(value)
		accounts = append(accounts, domain.AccountBreakdown{
			AccountID:      a.ID,
			AccountType:    "bank",
			Name:           a.Name,
			Currency:       a.Currency,
			NativeBalance:  a.CurrentBalance,
			ExchangeRate:   rate,
			ReportingValue: value,
		})
	}

	processors, err := s.accountRepo.ListActiveProcessorAccounts(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, a := range processors {
		value, rate, err := s.toReporting(a.Currency, a.ExchangeRate, a.CurrentBalance.Add(a.PendingBalance))
		if err != nil {
			return nil, fmt.Errorf("processor account %d (%s): %w", a.ID, a.Name, err)
		}
		realMoney = realMoney.Add(value)
		accounts = append(accounts, domain.AccountBreakdown{
			AccountID:      a.ID,
			AccountType:    "processor",
			Name:           a.Name,
			Currency:       a.Currency,
			NativeBalance:  a.CurrentBalance,
			PendingBalance: a.PendingBalance,
			ExchangeRate:   rate,
			ReportingValue: value,
		})
	}

	calculated, stores, err := s.balances.CompanyBalance(ctx, scope)
	if err != nil {
		return nil, err
	}

	difference := realMoney.Sub(calculated).Abs()
	result := &domain.ValidationResult{
		CompanyID:         scope.CompanyID,
		RealMoneyTotal:    realMoney,
		CalculatedBalance: calculated,
		Difference:        difference,
		Tolerance:         s.tolerance,
		IsValid:           difference.LessThanOrEqual(s.tolerance),
		Accounts:          accounts,
		Stores:            stores,
		RunAt:             time.Now().UTC(),
	}

	if err := s.runRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("record validation run: %w", err)
	}
	if !result.IsValid {
		logger.Warn("Balance validation discrepancy", "company_id", scope.CompanyID,
			"real_money_total", realMoney, "calculated_balance", calculated, "difference", difference)
	}
	return result, nil
}

// CreateBalanceAdjustment records an explicit, audited compensating ledger
// entry. Direction follows the sign of the delta: positive means the ledger
// is short of real money and gets an income-side adjustment.
func (s *validationService) CreateBalanceAdjustment(ctx context.Context, scope domain.Scope, storeID int64, delta decimal.Decimal, reason string) (*domain.Transaction, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("adjustment delta must be non-zero")
	}
	if reason == "" {
		return nil, fmt.Errorf("adjustment reason is required")
	}

	direction := domain.DirectionIncome
	amount := delta
	if delta.IsNegative() {
		direction = domain.DirectionExpense
		amount = delta.Neg()
	}

	tx, err := s.ledger.RecordTransaction(ctx, scope, RecordTransactionInput{
		StoreID:      storeID,
		Direction:    direction,
		Category:     domain.CategoryBalanceAdjustment,
		Amount:       amount,
		Currency:     s.reportingCurrency,
		Description:  reason,
		IsAdjustment: true,
		Approve:      true,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Balance adjustment recorded", "transaction_id", tx.ID,
		"store_id", storeID, "delta", delta, "reason", reason)
	return tx, nil
}

func (s *validationService) History(ctx context.Context, scope domain.Scope, limit int32) ([]domain.ValidationResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runRepo.ListByCompany(ctx, scope.CompanyID, limit)
}

// toReporting converts a native account balance into the reporting currency
// using the account's supplied rate. A missing rate on a foreign-currency
// account fails the run; the gap is never silently skipped.
func (s *validationService) toReporting(currency string, rate, native decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	validRate, err := money.RequireValidRate(currency, s.reportingCurrency, rate)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return money.Convert(native, validRate), validRate, nil
}
