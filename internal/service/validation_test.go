package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"partnerledger-backend/internal/domain"
)

func validationFixtures() (*MockAccountRepo, *MockValidationRunRepo, *MockTransactionRepo, *MockStoreRepo, ValidationService) {
	accountRepo := new(MockAccountRepo)
	runRepo := new(MockValidationRunRepo)
	txRepo := new(MockTransactionRepo)
	storeRepo := new(MockStoreRepo)

	balances := NewBalanceService(txRepo, storeRepo)
	ledger := NewLedgerService(txRepo, storeRepo, "USD")
	svc := NewValidationService(accountRepo, runRepo, balances, ledger, "USD", decimal.RequireFromString("0.01"))
	return accountRepo, runRepo, txRepo, storeRepo, svc
}

func TestValidationService_Validate(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	t.Run("Matching Books Reconcile", func(t *testing.T) {
		accountRepo, runRepo, txRepo, storeRepo, svc := validationFixtures()

		// Real money: 10,000 bank + 5,000 bank + (1,500 + 500) processor = 17,000.
		accountRepo.On("ListActiveBankAccounts", ctx, int64(1)).Return([]domain.BankAccount{
			{ID: 1, CompanyID: 1, Name: "Checking", Currency: "USD", CurrentBalance: dec("10000.00")},
			{ID: 2, CompanyID: 1, Name: "Savings", Currency: "USD", CurrentBalance: dec("5000.00")},
		}, nil)
		accountRepo.On("ListActiveProcessorAccounts", ctx, int64(1)).Return([]domain.PaymentProcessorAccount{
			{ID: 3, CompanyID: 1, Name: "Stripe", Processor: domain.ProcessorStripe, Currency: "USD",
				CurrentBalance: dec("1500.00"), PendingBalance: dec("500.00")},
		}, nil)

		// Ledger: one store, 20,000 income - 3,000 expense = 17,000.
		storeRepo.On("ListByCompany", ctx, int64(1)).Return([]domain.Store{*testStore()}, nil)
		storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionIncome, (*time.Time)(nil), (*time.Time)(nil)).
			Return(dec("20000.00"), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionExpense, (*time.Time)(nil), (*time.Time)(nil)).
			Return(dec("3000.00"), nil)

		runRepo.On("Create", ctx, mock.AnythingOfType("*domain.ValidationResult")).Return(nil)

		result, err := svc.Validate(ctx, scope)
		assert.NoError(t, err)
		assert.True(t, dec("17000.00").Equal(result.RealMoneyTotal))
		assert.True(t, dec("17000.00").Equal(result.CalculatedBalance))
		assert.True(t, result.Difference.IsZero())
		assert.True(t, result.IsValid)
		assert.Len(t, result.Accounts, 3)
		assert.Len(t, result.Stores, 1)
		runRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Discrepancy Beyond Tolerance Flagged", func(t *testing.T) {
		accountRepo, runRepo, txRepo, storeRepo, svc := validationFixtures()

		accountRepo.On("ListActiveBankAccounts", ctx, int64(1)).Return([]domain.BankAccount{
			{ID: 1, CompanyID: 1, Name: "Checking", Currency: "USD", CurrentBalance: dec("16900.00")},
		}, nil)
		accountRepo.On("ListActiveProcessorAccounts", ctx, int64(1)).
			Return([]domain.PaymentProcessorAccount{}, nil)

		storeRepo.On("ListByCompany", ctx, int64(1)).Return([]domain.Store{*testStore()}, nil)
		storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionIncome, (*time.Time)(nil), (*time.Time)(nil)).
			Return(dec("17000.00"), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionExpense, (*time.Time)(nil), (*time.Time)(nil)).
			Return(decimal.Zero, nil)

		runRepo.On("Create", ctx, mock.AnythingOfType("*domain.ValidationResult")).Return(nil)

		result, err := svc.Validate(ctx, scope)
		assert.NoError(t, err)
		assert.True(t, dec("100.00").Equal(result.Difference))
		assert.False(t, result.IsValid)
		// The run is persisted either way.
		runRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Foreign Account Converted With Stored Rate", func(t *testing.T) {
		accountRepo, runRepo, txRepo, storeRepo, svc := validationFixtures()

		accountRepo.On("ListActiveBankAccounts", ctx, int64(1)).Return([]domain.BankAccount{
			{ID: 1, CompanyID: 1, Name: "EUR Account", Currency: "EUR",
				CurrentBalance: dec("1000.00"), ExchangeRate: dec("1.08")},
		}, nil)
		accountRepo.On("ListActiveProcessorAccounts", ctx, int64(1)).
			Return([]domain.PaymentProcessorAccount{}, nil)

		storeRepo.On("ListByCompany", ctx, int64(1)).Return([]domain.Store{*testStore()}, nil)
		storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionIncome, (*time.Time)(nil), (*time.Time)(nil)).
			Return(dec("1080.00"), nil)
		txRepo.On("SumByDirection", ctx, int64(100), domain.DirectionExpense, (*time.Time)(nil), (*time.Time)(nil)).
			Return(decimal.Zero, nil)

		runRepo.On("Create", ctx, mock.AnythingOfType("*domain.ValidationResult")).Return(nil)

		result, err := svc.Validate(ctx, scope)
		assert.NoError(t, err)
		assert.True(t, dec("1080.00").Equal(result.RealMoneyTotal))
		assert.True(t, result.IsValid)
	})

	t.Run("Missing Rate On Foreign Account Fails Run", func(t *testing.T) {
		accountRepo, runRepo, _, _, svc := validationFixtures()

		accountRepo.On("ListActiveBankAccounts", ctx, int64(1)).Return([]domain.BankAccount{
			{ID: 1, CompanyID: 1, Name: "EUR Account", Currency: "EUR", CurrentBalance: dec("1000.00")},
		}, nil)

		_, err := svc.Validate(ctx, scope)
		assert.Error(t, err)
		runRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestValidationService_CreateBalanceAdjustment(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	t.Run("Positive Delta Becomes Approved Income", func(t *testing.T) {
		_, _, txRepo, storeRepo, svc := validationFixtures()
		storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)

		var created *domain.Transaction
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Transaction) }).
			Return(nil)

		_, err := svc.CreateBalanceAdjustment(ctx, scope, 100, dec("52.25"), "bank fee posted outside the ledger")
		assert.NoError(t, err)
		assert.Equal(t, domain.DirectionIncome, created.Direction)
		assert.Equal(t, domain.CategoryBalanceAdjustment, created.Category)
		assert.Equal(t, domain.TransactionStatusApproved, created.Status)
		assert.True(t, created.IsAdjustment)
		assert.True(t, dec("52.25").Equal(created.Amount))
	})

	t.Run("Negative Delta Becomes Expense", func(t *testing.T) {
		_, _, txRepo, storeRepo, svc := validationFixtures()
		storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)

		var created *domain.Transaction
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Transaction) }).
			Return(nil)

		_, err := svc.CreateBalanceAdjustment(ctx, scope, 100, dec("-30.00"), "duplicate deposit reversed")
		assert.NoError(t, err)
		assert.Equal(t, domain.DirectionExpense, created.Direction)
		assert.True(t, dec("30.00").Equal(created.Amount))
	})

	t.Run("Zero Delta Or Missing Reason Rejected", func(t *testing.T) {
		_, _, _, _, svc := validationFixtures()
		_, err := svc.CreateBalanceAdjustment(ctx, scope, 100, decimal.Zero, "reason")
		assert.Error(t, err)
		_, err = svc.CreateBalanceAdjustment(ctx, scope, 100, dec("10.00"), "")
		assert.Error(t, err)
	})
}

func TestValidationService_History(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	_, runRepo, _, _, svc := validationFixtures()
	runRepo.On("ListByCompany", ctx, int64(1), int32(20)).Return([]domain.ValidationResult{
		{CompanyID: 1, IsValid: true},
	}, nil)

	// Non-positive limits fall back to the default page of 20.
	runs, err := svc.History(ctx, scope, 0)
	assert.NoError(t, err)
	assert.Len(t, runs, 1)
}
