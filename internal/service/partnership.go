package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/repository"
)

var (
	hundred = decimal.NewFromInt(100)
	// ownershipTolerance absorbs repeating-fraction splits such as
	// 33.33/33.33/33.34.
	ownershipTolerance = decimal.NewFromFloat(0.01)
)

type partnershipService struct {
	partnershipRepo   repository.PartnershipRepository
	settlementRepo    repository.SettlementRepository
	storeRepo         repository.StoreRepository
	balances          BalanceService
	reportingCurrency string
}

func NewPartnershipService(
	partnershipRepo repository.PartnershipRepository,
	settlementRepo repository.SettlementRepository,
	storeRepo repository.StoreRepository,
	balances BalanceService,
	reportingCurrency string,
) PartnershipService {
	return &partnershipService{
		partnershipRepo:   partnershipRepo,
		settlementRepo:    settlementRepo,
		storeRepo:         storeRepo,
		balances:          balances,
		reportingCurrency: reportingCurrency,
	}
}

func (s *partnershipService) CreatePartnership(ctx context.Context, scope domain.Scope, p *domain.Partnership) error {
	if err := s.checkStore(ctx, scope, p.StoreID); err != nil {
		return err
	}
	if err := validatePercentage(p.OwnershipPercentage); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = domain.PartnershipStatusActive
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().UTC()
	}
	// The repository re-validates the ownership total under a store-level
	// lock; this is the race-safe check.
	if err := s.partnershipRepo.Create(ctx, p); err != nil {
		return err
	}
	logger.Info("Partnership created", "partnership_id", p.ID, "store_id", p.StoreID,
		"ownership", p.OwnershipPercentage)
	return nil
}

func (s *partnershipService) GetPartnership(ctx context.Context, scope domain.Scope, id int64) (*domain.Partnership, error) {
	p, err := s.partnershipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(ctx, scope, p.StoreID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *partnershipService) ListPartnerships(ctx context.Context, scope domain.Scope, storeID int64, status domain.PartnershipStatus) ([]domain.Partnership, error) {
	if err := s.checkStore(ctx, scope, storeID); err != nil {
		return nil, err
	}
	return s.partnershipRepo.ListByStore(ctx, storeID, status)
}

func (s *partnershipService) UpdateOwnership(ctx context.Context, scope domain.Scope, id int64, percentage decimal.Decimal) error {
	if _, err := s.GetPartnership(ctx, scope, id); err != nil {
		return err
	}
	if err := validatePercentage(percentage); err != nil {
		return err
	}
	return s.partnershipRepo.UpdatePercentage(ctx, id, percentage)
}

func (s *partnershipService) EndPartnership(ctx context.Context, scope domain.Scope, id int64, endDate time.Time) error {
	p, err := s.GetPartnership(ctx, scope, id)
	if err != nil {
		return err
	}
	if !p.DebtBalance.IsZero() {
		logger.Warn("Terminating partnership with outstanding debt",
			"partnership_id", id, "debt_balance", p.DebtBalance)
	}
	return s.partnershipRepo.UpdateStatus(ctx, id, domain.PartnershipStatusTerminated, &endDate)
}

func (s *partnershipService) TotalOwnership(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error) {
	if err := s.checkStore(ctx, scope, storeID); err != nil {
		return decimal.Zero, err
	}
	return s.partnershipRepo.SumActiveOwnership(ctx, storeID, 0)
}

func (s *partnershipService) AvailableOwnership(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error) {
	total, err := s.TotalOwnership(ctx, scope, storeID)
	if err != nil {
		return decimal.Zero, err
	}
	available := hundred.Sub(total)
	if available.IsNegative() {
		return decimal.Zero, nil
	}
	return available, nil
}

// ProfitShare is one partner's cut of a total profit, rounded to the cent.
func ProfitShare(p *domain.Partnership, totalProfit decimal.Decimal) decimal.Decimal {
	return totalProfit.Mul(p.OwnershipPercentage).Div(hundred).Round(2)
}

// DistributeProfit computes every active partner's share of the store's
// profit for the period and records each as a pending profit_share
// settlement. Rounded shares can leave a residual cent against the total;
// it is assigned to the largest-percentage partner, ties broken by earliest
// start date, so the distribution is deterministic and sums exactly.
func (s *partnershipService) DistributeProfit(ctx context.Context, scope domain.Scope, storeID int64, period Period) ([]domain.Settlement, error) {
	partnerships, err := s.ListPartnerships(ctx, scope, storeID, domain.PartnershipStatusActive)
	if err != nil {
		return nil, err
	}
	if len(partnerships) == 0 {
		return nil, errors.New("store has no active partnerships")
	}

	profit, err := s.balances.Profit(ctx, scope, storeID, period)
	if err != nil {
		return nil, err
	}
	if !profit.IsPositive() {
		return nil, fmt.Errorf("no distributable profit: %s", profit)
	}

	shares := SplitProfit(partnerships, profit)

	settlements := make([]domain.Settlement, 0, len(partnerships))
	for i, p := range partnerships {
		if shares[i].IsZero() {
			continue
		}
		settlement := &domain.Settlement{
			PartnershipID:   p.ID,
			Type:            domain.SettlementTypeProfitShare,
			Status:          domain.SettlementStatusPending,
			Amount:          shares[i],
			Currency:        s.reportingCurrency,
			PreviousBalance: p.DebtBalance,
			InitiatorID:     scope.UserID,
			Notes:           fmt.Sprintf("profit share, period %s", periodLabel(period)),
		}
		if err := s.settlementRepo.Create(ctx, settlement); err != nil {
			return nil, err
		}
		settlements = append(settlements, *settlement)
	}
	logger.Info("Profit distributed", "store_id", storeID, "period", period,
		"profit", profit, "settlements", len(settlements))
	return settlements, nil
}

// SplitProfit divides totalProfit across partnerships by ownership
// percentage, assigning the rounding residual to the largest stake.
// Shares are returned in the same order as the input slice.
func SplitProfit(partnerships []domain.Partnership, totalProfit decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(partnerships))
	allocated := decimal.Zero
	for i := range partnerships {
		shares[i] = ProfitShare(&partnerships[i], totalProfit)
		allocated = allocated.Add(shares[i])
	}

	// Only assign the residual when percentages cover the full store;
	// a partially-owned store legitimately distributes less than the total.
	totalPct := decimal.Zero
	for i := range partnerships {
		totalPct = totalPct.Add(partnerships[i].OwnershipPercentage)
	}
	residual := totalProfit.Sub(allocated)
	if residual.IsZero() || hundred.Sub(totalPct).Abs().GreaterThan(ownershipTolerance) {
		return shares
	}

	idx := make([]int, len(partnerships))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := &partnerships[idx[a]], &partnerships[idx[b]]
		if !pa.OwnershipPercentage.Equal(pb.OwnershipPercentage) {
			return pa.OwnershipPercentage.GreaterThan(pb.OwnershipPercentage)
		}
		return pa.StartDate.Before(pb.StartDate)
	})
	shares[idx[0]] = shares[idx[0]].Add(residual)
	return shares
}

func (s *partnershipService) checkStore(ctx context.Context, scope domain.Scope, storeID int64) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.CompanyID != scope.CompanyID || !scope.CanAccessStore(storeID) {
		return fmt.Errorf("store %d is not accessible to user %d", storeID, scope.UserID)
	}
	return nil
}

func validatePercentage(pct decimal.Decimal) error {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return fmt.Errorf("ownership percentage %s must be in (0, 100]", pct)
	}
	return nil
}

func periodLabel(p Period) string {
	if p == "" {
		return string(PeriodAll)
	}
	return string(p)
}
