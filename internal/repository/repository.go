package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
)

type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Store, error)
	Update(ctx context.Context, store *domain.Store) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	// CreateWithDebt inserts a transaction born APPROVED and applies its
	// partner debt delta in the same database transaction, so the entry can
	// never exist approved with the debt side effect missing.
	CreateWithDebt(ctx context.Context, tx *domain.Transaction, debtDelta decimal.Decimal) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	List(ctx context.Context, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error)

	// Approve performs a compare-and-swap PENDING -> APPROVED and, in the
	// same database transaction, applies any partner debt delta. When the
	// swap does not apply it returns the status found instead.
	Approve(ctx context.Context, id int64, approverID int64, debtDelta decimal.Decimal, partnershipID *int64) (domain.TransactionStatus, bool, error)
	Reject(ctx context.Context, id int64, approverID int64) (domain.TransactionStatus, bool, error)

	// SumByDirection aggregates APPROVED reporting-currency amounts for one
	// store and direction over an optional date window.
	SumByDirection(ctx context.Context, storeID int64, direction domain.TransactionDirection, from, to *time.Time) (decimal.Decimal, error)
}

type PartnershipRepository interface {
	// Create inserts the partnership. An ACTIVE row is checked, under a
	// store-level row lock, so that active ownership for the store stays
	// within 100%; PENDING and INACTIVE rows do not consume the pool.
	Create(ctx context.Context, p *domain.Partnership) error
	GetByID(ctx context.Context, id int64) (*domain.Partnership, error)
	ListByStore(ctx context.Context, storeID int64, status domain.PartnershipStatus) ([]domain.Partnership, error)
	// UpdatePercentage re-validates ownership under the same store lock.
	UpdatePercentage(ctx context.Context, id int64, percentage decimal.Decimal) error
	// UpdateStatus applies the ownership check when a row transitions into
	// ACTIVE.
	UpdateStatus(ctx context.Context, id int64, status domain.PartnershipStatus, endDate *time.Time) error
	SumActiveOwnership(ctx context.Context, storeID int64, excludeID int64) (decimal.Decimal, error)
	AdjustDebt(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type SettlementRepository interface {
	Create(ctx context.Context, s *domain.Settlement) error
	GetByID(ctx context.Context, id int64) (*domain.Settlement, error)
	ListByPartnership(ctx context.Context, partnershipID int64, status domain.SettlementStatus) ([]domain.Settlement, error)

	// Approve swaps pending -> approved and applies the debt delta to the
	// partnership in one database transaction; the swap and the delta
	// either both happen or neither does.
	Approve(ctx context.Context, id int64, approverID int64, reference string, delta decimal.Decimal, partnershipID int64) (domain.SettlementStatus, bool, error)
	Reject(ctx context.Context, id int64, approverID int64, reason string) (domain.SettlementStatus, bool, error)
	Complete(ctx context.Context, id int64) (domain.SettlementStatus, bool, error)
}

type ImportBatchRepository interface {
	Create(ctx context.Context, b *domain.ImportBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error)
	ListByCompany(ctx context.Context, companyID int64, page, pageSize int32) ([]domain.ImportBatch, int32, error)
	ListReprocessable(ctx context.Context, limit int32) ([]domain.ImportBatch, error)
	// UpdateStatus is a compare-and-swap on the batch state machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ImportBatchStatus) (bool, error)
	UpdateCounters(ctx context.Context, b *domain.ImportBatch) error
	Finish(ctx context.Context, b *domain.ImportBatch) error
}

type AccountRepository interface {
	ListActiveBankAccounts(ctx context.Context, companyID int64) ([]domain.BankAccount, error)
	ListActiveProcessorAccounts(ctx context.Context, companyID int64) ([]domain.PaymentProcessorAccount, error)
	UpdateBankBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	UpdateProcessorBalances(ctx context.Context, id int64, current, pending decimal.Decimal) error
}

type ValidationRunRepository interface {
	Create(ctx context.Context, result *domain.ValidationResult) error
	ListByCompany(ctx context.Context, companyID int64, limit int32) ([]domain.ValidationResult, error)
}
