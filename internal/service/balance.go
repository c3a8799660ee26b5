package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type balanceService struct {
	txRepo    repository.TransactionRepository
	storeRepo repository.StoreRepository
}

func NewBalanceService(txRepo repository.TransactionRepository, storeRepo repository.StoreRepository) BalanceService {
	return &balanceService{txRepo: txRepo, storeRepo: storeRepo}
}

// StoreBalance is approved income minus approved expenses, in the reporting
// currency, over all time. Negative balances are returned as-is.
func (s *balanceService) StoreBalance(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error) {
	return s.StoreBalanceWindow(ctx, scope, storeID, nil, nil)
}

func (s *balanceService) StoreBalanceWindow(ctx context.Context, scope domain.Scope, storeID int64, from, to *time.Time) (decimal.Decimal, error) {
	if err := s.checkStore(ctx, scope, storeID); err != nil {
		return decimal.Zero, err
	}
	income, err := s.txRepo.SumByDirection(ctx, storeID, domain.DirectionIncome, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.txRepo.SumByDirection(ctx, storeID, domain.DirectionExpense, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expense), nil
}

func (s *balanceService) Profit(ctx context.Context, scope domain.Scope, storeID int64, period Period) (decimal.Decimal, error) {
	from, err := periodStart(period, time.Now().UTC())
	if err != nil {
		return decimal.Zero, err
	}
	return s.StoreBalanceWindow(ctx, scope, storeID, from, nil)
}

func (s *balanceService) CompanyBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, []domain.StoreBreakdown, error) {
	stores, err := s.storeRepo.ListByCompany(ctx, scope.CompanyID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	total := decimal.Zero
	breakdown := make([]domain.StoreBreakdown, 0, len(stores))
	for _, store := range stores {
		balance, err := s.StoreBalanceWindow(ctx, scope, store.ID, nil, nil)
		if err != nil {
			return decimal.Zero, nil, err
		}
		total = total.Add(balance)
		breakdown = append(breakdown, domain.StoreBreakdown{StoreID: store.ID, Name: store.Name, Balance: balance})
	}
	return total, breakdown, nil
}

func (s *balanceService) checkStore(ctx context.Context, scope domain.Scope, storeID int64) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.CompanyID != scope.CompanyID || !scope.CanAccessStore(storeID) {
		return fmt.Errorf("store %d is not accessible to user %d", storeID, scope.UserID)
	}
	return nil
}

func periodStart(period Period, now time.Time) (*time.Time, error) {
	switch period {
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &start, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &start, nil
	case PeriodAll, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown period %q", period)
}
