package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/money"
	"partnerledger-backend/internal/repository"
)

type ledgerService struct {
	txRepo            repository.TransactionRepository
	storeRepo         repository.StoreRepository
	reportingCurrency string
}

func NewLedgerService(
	txRepo repository.TransactionRepository,
	storeRepo repository.StoreRepository,
	reportingCurrency string,
) LedgerService {
	return &ledgerService{
		txRepo:            txRepo,
		storeRepo:         storeRepo,
		reportingCurrency: reportingCurrency,
	}
}

func (s *ledgerService) RecordTransaction(ctx context.Context, scope domain.Scope, input RecordTransactionInput) (*domain.Transaction, error) {
	if err := s.checkStoreAccess(ctx, scope, input.StoreID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCategoryDirection(input.Category, input.Direction); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if err := money.ValidatePrecision(input.Amount, input.Currency); err != nil {
		return nil, err
	}

	rate, err := money.RequireValidRate(input.Currency, s.reportingCurrency, input.ExchangeRate)
	if err != nil {
		return nil, err
	}

	status := domain.TransactionStatusPending
	if input.Approve {
		if !scope.CanApprove {
			return nil, errors.New("acting user may not approve transactions")
		}
		status = domain.TransactionStatusApproved
	}

	occurredOn := input.OccurredOn
	if occurredOn.IsZero() {
		occurredOn = time.Now().UTC()
	}

	tx := &domain.Transaction{
		StoreID:         input.StoreID,
		Direction:       input.Direction,
		Category:        input.Category,
		Amount:          input.Amount,
		Currency:        input.Currency,
		ExchangeRate:    rate,
		ReportingAmount: money.Convert(input.Amount, rate),
		Status:          status,
		OccurredOn:      occurredOn,
		PartnershipID:   input.PartnershipID,
		Description:     input.Description,
		ExternalRef:     input.ExternalRef,
		Processor:       input.Processor,
		IsPersonal:      input.IsPersonal,
		IsAdjustment:    input.IsAdjustment,
		IsPendingPayout: input.IsPendingPayout,
		Metadata:        input.Metadata,
	}
	if input.ExternalRef != "" {
		tx.Fingerprint = Fingerprint(input.StoreID, input.ExternalRef, input.Amount, occurredOn)
	}
	if status == domain.TransactionStatusApproved {
		now := time.Now().UTC()
		tx.ApprovedBy = &scope.UserID
		tx.ApprovedAt = &now
	}

	// Entries born APPROVED carry their debt side effect immediately; there
	// is no later transition to trigger it, so insert and delta must commit
	// together.
	if delta, ok := tx.AffectsDebt(); ok && status == domain.TransactionStatusApproved {
		if err := s.txRepo.CreateWithDebt(ctx, tx, delta); err != nil {
			return nil, err
		}
	} else if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction recorded", "transaction_id", tx.ID, "store_id", tx.StoreID,
		"category", tx.Category, "reporting_amount", tx.ReportingAmount, "status", tx.Status)
	return tx, nil
}

// ApproveTransaction transitions PENDING -> APPROVED. Approving an already
// APPROVED transaction is a no-op; the debt side effect is applied exactly
// once, by the compare-and-swap in the repository.
func (s *ledgerService) ApproveTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	if !scope.CanApprove {
		return nil, errors.New("acting user may not approve transactions")
	}
	tx, err := s.GetTransaction(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == domain.TransactionStatusApproved {
		return tx, nil
	}
	if tx.Status == domain.TransactionStatusRejected {
		return nil, &domain.ConflictError{Entity: "transaction", ID: id, Message: "already rejected"}
	}

	delta, _ := tx.AffectsDebt()
	current, swapped, err := s.txRepo.Approve(ctx, id, scope.UserID, delta, tx.PartnershipID)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Lost the race. Another approver finishing first is still a
		// successful, already-applied approval.
		if current == domain.TransactionStatusApproved {
			return s.txRepo.GetByID(ctx, id)
		}
		return nil, &domain.ConflictError{Entity: "transaction", ID: id,
			Message: fmt.Sprintf("status changed to %s", current)}
	}
	logger.Info("Transaction approved", "transaction_id", id, "approver_id", scope.UserID)
	return s.txRepo.GetByID(ctx, id)
}

func (s *ledgerService) RejectTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	if !scope.CanApprove {
		return nil, errors.New("acting user may not reject transactions")
	}
	if _, err := s.GetTransaction(ctx, scope, id); err != nil {
		return nil, err
	}
	current, swapped, err := s.txRepo.Reject(ctx, id, scope.UserID)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.ConflictError{Entity: "transaction", ID: id,
			Message: fmt.Sprintf("cannot reject, status is %s", current)}
	}
	return s.txRepo.GetByID(ctx, id)
}

func (s *ledgerService) GetTransaction(ctx context.Context, scope domain.Scope, id int64) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkStoreAccess(ctx, scope, tx.StoreID); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *ledgerService) QueryTransactions(ctx context.Context, scope domain.Scope, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	if err := s.checkStoreAccess(ctx, scope, storeID); err != nil {
		return nil, 0, err
	}
	return s.txRepo.List(ctx, storeID, filter)
}

func (s *ledgerService) checkStoreAccess(ctx context.Context, scope domain.Scope, storeID int64) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.CompanyID != scope.CompanyID || !scope.CanAccessStore(storeID) {
		return fmt.Errorf("store %d is not accessible to user %d", storeID, scope.UserID)
	}
	return nil
}

// Fingerprint derives the duplicate-detection key for an externally sourced
// transaction: store + external reference + amount + date. The transactions
// table enforces it with a unique constraint.
func Fingerprint(storeID int64, externalRef string, amount decimal.Decimal, occurredOn time.Time) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%d|%s|%s|%s",
		storeID, externalRef, amount.String(), occurredOn.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h[:])
}
