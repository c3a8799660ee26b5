package service

import (
	"context"
	"errors"
	"fmt"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/money"
	"partnerledger-backend/internal/repository"
)

type settlementService struct {
	settlementRepo    repository.SettlementRepository
	partnershipRepo   repository.PartnershipRepository
	storeRepo         repository.StoreRepository
	reportingCurrency string
}

func NewSettlementService(
	settlementRepo repository.SettlementRepository,
	partnershipRepo repository.PartnershipRepository,
	storeRepo repository.StoreRepository,
	reportingCurrency string,
) SettlementService {
	return &settlementService{
		settlementRepo:    settlementRepo,
		partnershipRepo:   partnershipRepo,
		storeRepo:         storeRepo,
		reportingCurrency: reportingCurrency,
	}
}

func (s *settlementService) RequestSettlement(ctx context.Context, scope domain.Scope, input RequestSettlementInput) (*domain.Settlement, error) {
	p, err := s.partnership(ctx, scope, input.PartnershipID)
	if err != nil {
		return nil, err
	}

	switch input.Type {
	case domain.SettlementTypeAdjustment:
		if input.Amount.IsZero() {
			return nil, errors.New("adjustment amount must be non-zero")
		}
	case domain.SettlementTypePayment, domain.SettlementTypeWithdrawal,
		domain.SettlementTypeExpense, domain.SettlementTypeProfitShare:
		if !input.Amount.IsPositive() {
			return nil, fmt.Errorf("%s amount must be positive", input.Type)
		}
	default:
		return nil, fmt.Errorf("unknown settlement type %q", input.Type)
	}

	currency := input.Currency
	if currency == "" {
		currency = s.reportingCurrency
	}
	if err := money.ValidatePrecision(input.Amount, currency); err != nil {
		return nil, err
	}

	settlement := &domain.Settlement{
		PartnershipID:   input.PartnershipID,
		Type:            input.Type,
		Status:          domain.SettlementStatusPending,
		Amount:          input.Amount,
		Currency:        currency,
		PreviousBalance: p.DebtBalance,
		InitiatorID:     scope.UserID,
		Notes:           input.Notes,
	}
	if err := s.settlementRepo.Create(ctx, settlement); err != nil {
		return nil, err
	}
	logger.Info("Settlement requested", "settlement_id", settlement.ID,
		"partnership_id", input.PartnershipID, "type", input.Type, "amount", input.Amount)
	return settlement, nil
}

// ApproveSettlement applies the settlement's debt delta exactly once. Any
// invocation from a state other than pending fails loudly; the delta is
// never silently re-applied.
func (s *settlementService) ApproveSettlement(ctx context.Context, scope domain.Scope, id int64, reference string) (*domain.Settlement, error) {
	if !scope.CanApprove {
		return nil, errors.New("acting user may not approve settlements")
	}
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.partnership(ctx, scope, settlement.PartnershipID); err != nil {
		return nil, err
	}
	if settlement.Status != domain.SettlementStatusPending {
		return nil, &domain.InvalidSettlementStateError{
			SettlementID: id, Current: settlement.Status, Required: domain.SettlementStatusPending}
	}

	current, swapped, err := s.settlementRepo.Approve(ctx, id, scope.UserID, reference,
		settlement.DebtDelta(), settlement.PartnershipID)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.InvalidSettlementStateError{
			SettlementID: id, Current: current, Required: domain.SettlementStatusPending}
	}
	logger.Info("Settlement approved", "settlement_id", id, "approver_id", scope.UserID,
		"delta", settlement.DebtDelta())
	return s.settlementRepo.GetByID(ctx, id)
}

func (s *settlementService) RejectSettlement(ctx context.Context, scope domain.Scope, id int64, reason string) (*domain.Settlement, error) {
	if !scope.CanApprove {
		return nil, errors.New("acting user may not reject settlements")
	}
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.partnership(ctx, scope, settlement.PartnershipID); err != nil {
		return nil, err
	}

	current, swapped, err := s.settlementRepo.Reject(ctx, id, scope.UserID, reason)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.InvalidSettlementStateError{
			SettlementID: id, Current: current, Required: domain.SettlementStatusPending}
	}
	return s.settlementRepo.GetByID(ctx, id)
}

// CompleteSettlement marks the real-world payment as executed. The debt
// effect already happened at approval; completion is bookkeeping only.
func (s *settlementService) CompleteSettlement(ctx context.Context, scope domain.Scope, id int64) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.partnership(ctx, scope, settlement.PartnershipID); err != nil {
		return nil, err
	}

	current, swapped, err := s.settlementRepo.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.InvalidSettlementStateError{
			SettlementID: id, Current: current, Required: domain.SettlementStatusApproved}
	}
	return s.settlementRepo.GetByID(ctx, id)
}

func (s *settlementService) ListSettlements(ctx context.Context, scope domain.Scope, partnershipID int64, status domain.SettlementStatus) ([]domain.Settlement, error) {
	if _, err := s.partnership(ctx, scope, partnershipID); err != nil {
		return nil, err
	}
	return s.settlementRepo.ListByPartnership(ctx, partnershipID, status)
}

func (s *settlementService) partnership(ctx context.Context, scope domain.Scope, id int64) (*domain.Partnership, error) {
	p, err := s.partnershipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := s.storeRepo.GetByID(ctx, p.StoreID)
	if err != nil {
		return nil, err
	}
	if store.CompanyID != scope.CompanyID || !scope.CanAccessStore(p.StoreID) {
		return nil, fmt.Errorf("partnership %d is not accessible to user %d", id, scope.UserID)
	}
	return p, nil
}
