package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"partnerledger-backend/internal/domain"
)

// MockStoreRepo
type MockStoreRepo struct {
	mock.Mock
}

func (m *MockStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}
func (m *MockStoreRepo) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
func (m *MockStoreRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Store, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}
func (m *MockStoreRepo) Update(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) CreateWithDebt(ctx context.Context, tx *domain.Transaction, debtDelta decimal.Decimal) error {
	args := m.Called(ctx, tx, debtDelta)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) List(ctx context.Context, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) Approve(ctx context.Context, id int64, approverID int64, debtDelta decimal.Decimal, partnershipID *int64) (domain.TransactionStatus, bool, error) {
	args := m.Called(ctx, id, approverID, debtDelta, partnershipID)
	return args.Get(0).(domain.TransactionStatus), args.Bool(1), args.Error(2)
}
func (m *MockTransactionRepo) Reject(ctx context.Context, id int64, approverID int64) (domain.TransactionStatus, bool, error) {
	args := m.Called(ctx, id, approverID)
	return args.Get(0).(domain.TransactionStatus), args.Bool(1), args.Error(2)
}
func (m *MockTransactionRepo) SumByDirection(ctx context.Context, storeID int64, direction domain.TransactionDirection, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, storeID, direction, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPartnershipRepo
type MockPartnershipRepo struct {
	mock.Mock
}

func (m *MockPartnershipRepo) Create(ctx context.Context, p *domain.Partnership) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPartnershipRepo) GetByID(ctx context.Context, id int64) (*domain.Partnership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partnership), args.Error(1)
}
func (m *MockPartnershipRepo) ListByStore(ctx context.Context, storeID int64, status domain.PartnershipStatus) ([]domain.Partnership, error) {
	args := m.Called(ctx, storeID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partnership), args.Error(1)
}
func (m *MockPartnershipRepo) UpdatePercentage(ctx context.Context, id int64, percentage decimal.Decimal) error {
	args := m.Called(ctx, id, percentage)
	return args.Error(0)
}
func (m *MockPartnershipRepo) UpdateStatus(ctx context.Context, id int64, status domain.PartnershipStatus, endDate *time.Time) error {
	args := m.Called(ctx, id, status, endDate)
	return args.Error(0)
}
func (m *MockPartnershipRepo) SumActiveOwnership(ctx context.Context, storeID int64, excludeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, storeID, excludeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockPartnershipRepo) AdjustDebt(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettlementRepo
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) Create(ctx context.Context, s *domain.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSettlementRepo) GetByID(ctx context.Context, id int64) (*domain.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
func (m *MockSettlementRepo) ListByPartnership(ctx context.Context, partnershipID int64, status domain.SettlementStatus) ([]domain.Settlement, error) {
	args := m.Called(ctx, partnershipID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}
func (m *MockSettlementRepo) Approve(ctx context.Context, id int64, approverID int64, reference string, delta decimal.Decimal, partnershipID int64) (domain.SettlementStatus, bool, error) {
	args := m.Called(ctx, id, approverID, reference, delta, partnershipID)
	return args.Get(0).(domain.SettlementStatus), args.Bool(1), args.Error(2)
}
func (m *MockSettlementRepo) Reject(ctx context.Context, id int64, approverID int64, reason string) (domain.SettlementStatus, bool, error) {
	args := m.Called(ctx, id, approverID, reason)
	return args.Get(0).(domain.SettlementStatus), args.Bool(1), args.Error(2)
}
func (m *MockSettlementRepo) Complete(ctx context.Context, id int64) (domain.SettlementStatus, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.SettlementStatus), args.Bool(1), args.Error(2)
}

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) ListActiveBankAccounts(ctx context.Context, companyID int64) ([]domain.BankAccount, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}
func (m *MockAccountRepo) ListActiveProcessorAccounts(ctx context.Context, companyID int64) ([]domain.PaymentProcessorAccount, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentProcessorAccount), args.Error(1)
}
func (m *MockAccountRepo) UpdateBankBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}
func (m *MockAccountRepo) UpdateProcessorBalances(ctx context.Context, id int64, current, pending decimal.Decimal) error {
	args := m.Called(ctx, id, current, pending)
	return args.Error(0)
}

// MockValidationRunRepo
type MockValidationRunRepo struct {
	mock.Mock
}

func (m *MockValidationRunRepo) Create(ctx context.Context, result *domain.ValidationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
func (m *MockValidationRunRepo) ListByCompany(ctx context.Context, companyID int64, limit int32) ([]domain.ValidationResult, error) {
	args := m.Called(ctx, companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationResult), args.Error(1)
}
