package http

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/service"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordTransaction(ctx context.Context, scope domain.Scope, input service.RecordTransactionInput) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ApproveTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) RejectTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) QueryTransactions(ctx context.Context, scope domain.Scope, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, scope, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) StoreBalance(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, storeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) StoreBalanceWindow(ctx context.Context, scope domain.Scope, storeID int64, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, storeID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) Profit(ctx context.Context, scope domain.Scope, storeID int64, period service.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, scope, storeID, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) CompanyBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, []domain.StoreBreakdown, error) {
	args := m.Called(ctx, scope)
	if args.Get(1) == nil {
		return args.Get(0).(decimal.Decimal), nil, args.Error(2)
	}
	return args.Get(0).(decimal.Decimal), args.Get(1).([]domain.StoreBreakdown), args.Error(2)
}
