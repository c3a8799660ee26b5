package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"partnerledger-backend/internal/domain"
)

func settlementFixtures(ctx context.Context) (*MockSettlementRepo, *MockPartnershipRepo, *MockStoreRepo, SettlementService) {
	settlementRepo := new(MockSettlementRepo)
	partnershipRepo := new(MockPartnershipRepo)
	storeRepo := new(MockStoreRepo)
	svc := NewSettlementService(settlementRepo, partnershipRepo, storeRepo, "USD")

	partnershipRepo.On("GetByID", ctx, int64(7)).Return(&domain.Partnership{
		ID: 7, StoreID: 100, UserID: 20, Status: domain.PartnershipStatusActive,
		DebtBalance: decimal.RequireFromString("500.00"),
	}, nil)
	storeRepo.On("GetByID", ctx, int64(100)).Return(testStore(), nil)
	return settlementRepo, partnershipRepo, storeRepo, svc
}

func TestSettlementService_RequestSettlement(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	t.Run("Snapshots Previous Balance", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)

		s, err := svc.RequestSettlement(ctx, scope, RequestSettlementInput{
			PartnershipID: 7,
			Type:          domain.SettlementTypePayment,
			Amount:        dec("200.00"),
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.SettlementStatusPending, s.Status)
		assert.True(t, dec("500.00").Equal(s.PreviousBalance))
		assert.Equal(t, "USD", s.Currency) // defaults to reporting currency
		assert.Equal(t, int64(10), s.InitiatorID)
	})

	t.Run("Zero Amount Rejected For Payment", func(t *testing.T) {
		_, _, _, svc := settlementFixtures(ctx)
		_, err := svc.RequestSettlement(ctx, scope, RequestSettlementInput{
			PartnershipID: 7,
			Type:          domain.SettlementTypePayment,
			Amount:        decimal.Zero,
		})
		assert.Error(t, err)
	})

	t.Run("Adjustment May Be Negative But Not Zero", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil)

		s, err := svc.RequestSettlement(ctx, scope, RequestSettlementInput{
			PartnershipID: 7,
			Type:          domain.SettlementTypeAdjustment,
			Amount:        dec("-75.00"),
		})
		assert.NoError(t, err)
		assert.True(t, dec("-75.00").Equal(s.DebtDelta()))

		_, err = svc.RequestSettlement(ctx, scope, RequestSettlementInput{
			PartnershipID: 7,
			Type:          domain.SettlementTypeAdjustment,
			Amount:        decimal.Zero,
		})
		assert.Error(t, err)
	})

	t.Run("Unknown Type Rejected", func(t *testing.T) {
		_, _, _, svc := settlementFixtures(ctx)
		_, err := svc.RequestSettlement(ctx, scope, RequestSettlementInput{
			PartnershipID: 7,
			Type:          domain.SettlementType("loan"),
			Amount:        dec("10.00"),
		})
		assert.Error(t, err)
	})
}

func TestSettlementService_ApproveSettlement(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	pendingPayment := func() *domain.Settlement {
		return &domain.Settlement{
			ID:            33,
			PartnershipID: 7,
			Type:          domain.SettlementTypePayment,
			Status:        domain.SettlementStatusPending,
			Amount:        dec("200.00"),
			Currency:      "USD",
		}
	}

	t.Run("Applies Negative Delta For Payment", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("GetByID", ctx, int64(33)).Return(pendingPayment(), nil)
		settlementRepo.On("Approve", ctx, int64(33), int64(10), "wire-001",
			mock.MatchedBy(func(d decimal.Decimal) bool { return dec("-200.00").Equal(d) }),
			int64(7)).Return(domain.SettlementStatusApproved, true, nil)

		_, err := svc.ApproveSettlement(ctx, scope, 33, "wire-001")
		assert.NoError(t, err)
		settlementRepo.AssertNumberOfCalls(t, "Approve", 1)
	})

	t.Run("Double Approve Fails", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		approved := pendingPayment()
		approved.Status = domain.SettlementStatusApproved
		settlementRepo.On("GetByID", ctx, int64(33)).Return(approved, nil)

		_, err := svc.ApproveSettlement(ctx, scope, 33, "")
		var stateErr *domain.InvalidSettlementStateError
		assert.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.SettlementStatusApproved, stateErr.Current)
		settlementRepo.AssertNotCalled(t, "Approve",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lost Race Fails Loudly", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("GetByID", ctx, int64(33)).Return(pendingPayment(), nil)
		settlementRepo.On("Approve", ctx, int64(33), int64(10), "", mock.Anything, int64(7)).
			Return(domain.SettlementStatusApproved, false, nil)

		_, err := svc.ApproveSettlement(ctx, scope, 33, "")
		var stateErr *domain.InvalidSettlementStateError
		assert.ErrorAs(t, err, &stateErr)
	})

	t.Run("Without Permission Fails", func(t *testing.T) {
		_, _, _, svc := settlementFixtures(ctx)
		viewer := domain.Scope{UserID: 11, CompanyID: 1}
		_, err := svc.ApproveSettlement(ctx, viewer, 33, "")
		assert.Error(t, err)
	})
}

func TestSettlementService_RejectAndComplete(t *testing.T) {
	ctx := context.Background()
	scope := testScope()

	t.Run("Reject Pending", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("GetByID", ctx, int64(33)).Return(&domain.Settlement{
			ID: 33, PartnershipID: 7, Type: domain.SettlementTypeWithdrawal,
			Status: domain.SettlementStatusPending, Amount: dec("50.00"),
		}, nil)
		settlementRepo.On("Reject", ctx, int64(33), int64(10), "not agreed").
			Return(domain.SettlementStatusRejected, true, nil)

		_, err := svc.RejectSettlement(ctx, scope, 33, "not agreed")
		assert.NoError(t, err)
	})

	t.Run("Complete Requires Approved", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("GetByID", ctx, int64(33)).Return(&domain.Settlement{
			ID: 33, PartnershipID: 7, Type: domain.SettlementTypeWithdrawal,
			Status: domain.SettlementStatusPending, Amount: dec("50.00"),
		}, nil)
		settlementRepo.On("Complete", ctx, int64(33)).
			Return(domain.SettlementStatusPending, false, nil)

		_, err := svc.CompleteSettlement(ctx, scope, 33)
		var stateErr *domain.InvalidSettlementStateError
		assert.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.SettlementStatusApproved, stateErr.Required)
	})

	t.Run("Complete Approved", func(t *testing.T) {
		settlementRepo, _, _, svc := settlementFixtures(ctx)
		settlementRepo.On("GetByID", ctx, int64(33)).Return(&domain.Settlement{
			ID: 33, PartnershipID: 7, Type: domain.SettlementTypeWithdrawal,
			Status: domain.SettlementStatusApproved, Amount: dec("50.00"),
		}, nil)
		settlementRepo.On("Complete", ctx, int64(33)).
			Return(domain.SettlementStatusCompleted, true, nil)

		_, err := svc.CompleteSettlement(ctx, scope, 33)
		assert.NoError(t, err)
	})
}

func TestSettlement_DebtDelta(t *testing.T) {
	amount := decimal.RequireFromString("120.00")

	cases := []struct {
		name     string
		typ      domain.SettlementType
		expected decimal.Decimal
	}{
		{"Payment Reduces Debt", domain.SettlementTypePayment, amount.Neg()},
		{"Profit Share Reduces Debt", domain.SettlementTypeProfitShare, amount.Neg()},
		{"Withdrawal Increases Debt", domain.SettlementTypeWithdrawal, amount},
		{"Expense Increases Debt", domain.SettlementTypeExpense, amount},
		{"Adjustment Keeps Sign", domain.SettlementTypeAdjustment, amount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &domain.Settlement{Type: tc.typ, Amount: amount}
			assert.True(t, tc.expected.Equal(s.DebtDelta()))
		})
	}
}
