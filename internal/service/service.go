package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
)

// Period selects the date window for profit calculations.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// RecordTransactionInput carries everything needed to append one ledger
// entry. ExchangeRate is required for any non-reporting currency.
type RecordTransactionInput struct {
	StoreID         int64
	Direction       domain.TransactionDirection
	Category        domain.TransactionCategory
	Amount          decimal.Decimal
	Currency        string
	ExchangeRate    decimal.Decimal
	OccurredOn      time.Time
	PartnershipID   *int64
	Description     string
	ExternalRef     string
	Processor       domain.ProcessorType
	IsPersonal      bool
	IsAdjustment    bool
	IsPendingPayout bool
	Metadata        string
	Approve         bool // record directly as APPROVED; requires scope.CanApprove
}

type RequestSettlementInput struct {
	PartnershipID int64
	Type          domain.SettlementType
	Amount        decimal.Decimal
	Currency      string
	Notes         string
}

type LedgerService interface {
	RecordTransaction(ctx context.Context, scope domain.Scope, input RecordTransactionInput) (*domain.Transaction, error)
	ApproveTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error)
	QueryTransactions(ctx context.Context, scope domain.Scope, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error)
}

type BalanceService interface {
	StoreBalance(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error)
	StoreBalanceWindow(ctx context.Context, scope domain.Scope, storeID int64, from, to *time.Time) (decimal.Decimal, error)
	Profit(ctx context.Context, scope domain.Scope, storeID int64, period Period) (decimal.Decimal, error)
	CompanyBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, []domain.StoreBreakdown, error)
}

type PartnershipService interface {
	CreatePartnership(ctx context.Context, scope domain.Scope, p *domain.Partnership) error
	GetPartnership(ctx context.Context, scope domain.Scope, id int64) (*domain.Partnership, error)
	ListPartnerships(ctx context.Context, scope domain.Scope, storeID int64, status domain.PartnershipStatus) ([]domain.Partnership, error)
	UpdateOwnership(ctx context.Context, scope domain.Scope, id int64, percentage decimal.Decimal) error
	EndPartnership(ctx context.Context, scope domain.Scope, id int64, endDate time.Time) error
	TotalOwnership(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error)
	AvailableOwnership(ctx context.Context, scope domain.Scope, storeID int64) (decimal.Decimal, error)
	DistributeProfit(ctx context.Context, scope domain.Scope, storeID int64, period Period) ([]domain.Settlement, error)
}

type SettlementService interface {
	RequestSettlement(ctx context.Context, scope domain.Scope, input RequestSettlementInput) (*domain.Settlement, error)
	ApproveSettlement(ctx context.Context, scope domain.Scope, id int64, reference string) (*domain.Settlement, error)
	RejectSettlement(ctx context.Context, scope domain.Scope, id int64, reason string) (*domain.Settlement, error)
	CompleteSettlement(ctx context.Context, scope domain.Scope, id int64) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, scope domain.Scope, partnershipID int64, status domain.SettlementStatus) ([]domain.Settlement, error)
}

type ValidationService interface {
	Validate(ctx context.Context, scope domain.Scope) (*domain.ValidationResult, error)
	CreateBalanceAdjustment(ctx context.Context, scope domain.Scope, storeID int64, delta decimal.Decimal, reason string) (*domain.Transaction, error)
	History(ctx context.Context, scope domain.Scope, limit int32) ([]domain.ValidationResult, error)
}
