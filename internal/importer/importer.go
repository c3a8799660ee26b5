package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
	"partnerledger-backend/internal/repository"
	"partnerledger-backend/internal/service"
)

// Service runs the import batch state machine:
// pending -> processing -> completed | failed | cancelled.
type Service interface {
	Start(ctx context.Context, scope domain.Scope, input StartInput) (*domain.ImportBatch, error)
	Reprocess(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error)
	Cancel(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error)
	Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error)
	List(ctx context.Context, scope domain.Scope, page, pageSize int32) ([]domain.ImportBatch, int32, error)
}

type StartInput struct {
	StoreID    int64
	SourceType domain.ImportSourceType
	ImportType domain.ImportType
	FileName   string
	Payload    []byte
}

type importService struct {
	batchRepo repository.ImportBatchRepository
	storeRepo repository.StoreRepository
	ledger    service.LedgerService
	maxRows   int
}

func NewService(
	batchRepo repository.ImportBatchRepository,
	storeRepo repository.StoreRepository,
	ledger service.LedgerService,
	maxRows int,
) Service {
	return &importService{batchRepo: batchRepo, storeRepo: storeRepo, ledger: ledger, maxRows: maxRows}
}

func (s *importService) Start(ctx context.Context, scope domain.Scope, input StartInput) (*domain.ImportBatch, error) {
	if err := s.checkStore(ctx, scope, input.StoreID); err != nil {
		return nil, err
	}
	if len(input.Payload) == 0 {
		return nil, errors.New("import payload is empty")
	}
	if _, err := ForSource(input.SourceType); err != nil {
		return nil, err
	}

	importType := input.ImportType
	if importType == "" {
		importType = domain.ImportTypeFile
	}
	batch := &domain.ImportBatch{
		CompanyID:   scope.CompanyID,
		StoreID:     input.StoreID,
		SourceType:  input.SourceType,
		ImportType:  importType,
		FileName:    input.FileName,
		FileSize:    int64(len(input.Payload)),
		Status:      domain.BatchStatusPending,
		Payload:     input.Payload,
		InitiatedBy: scope.UserID,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}
	return s.run(ctx, scope, batch)
}

// Reprocess re-runs a failed or explicitly reprocessable batch against its
// original payload. Fingerprint dedup makes rows already committed in an
// earlier run count as duplicates instead of double-posting.
func (s *importService) Reprocess(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error) {
	batch, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchStatusFailed && !batch.Reprocessable {
		return nil, &domain.ConflictError{Entity: "import batch",
			Message: fmt.Sprintf("batch %s is %s and not flagged reprocessable", id, batch.Status)}
	}
	if len(batch.Payload) == 0 {
		return nil, fmt.Errorf("batch %s has no stored payload to reprocess", id)
	}

	swapped, err := s.batchRepo.UpdateStatus(ctx, id, batch.Status, domain.BatchStatusPending)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.ConflictError{Entity: "import batch", Message: "batch state changed concurrently"}
	}
	batch.Status = domain.BatchStatusPending
	batch.TotalRecords, batch.SuccessfulRecords, batch.FailedRecords, batch.DuplicateRecords = 0, 0, 0, 0
	batch.RowErrors = nil
	batch.ErrorDetail = ""
	return s.run(ctx, scope, batch)
}

func (s *importService) Cancel(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error) {
	batch, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if batch.Terminal() {
		return nil, &domain.ConflictError{Entity: "import batch",
			Message: fmt.Sprintf("batch %s is already %s", id, batch.Status)}
	}
	swapped, err := s.batchRepo.UpdateStatus(ctx, id, batch.Status, domain.BatchStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.ConflictError{Entity: "import batch", Message: "batch state changed concurrently"}
	}
	return s.batchRepo.GetByID(ctx, id)
}

func (s *importService) Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.ImportBatch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.CompanyID != scope.CompanyID {
		return nil, &domain.NotFoundError{Entity: "import batch", ID: id.String()}
	}
	return batch, nil
}

func (s *importService) List(ctx context.Context, scope domain.Scope, page, pageSize int32) ([]domain.ImportBatch, int32, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.batchRepo.ListByCompany(ctx, scope.CompanyID, page, pageSize)
}

func (s *importService) run(ctx context.Context, scope domain.Scope, batch *domain.ImportBatch) (*domain.ImportBatch, error) {
	swapped, err := s.batchRepo.UpdateStatus(ctx, batch.ID, domain.BatchStatusPending, domain.BatchStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &domain.ConflictError{Entity: "import batch", Message: "batch is not pending"}
	}
	batch.Status = domain.BatchStatusProcessing

	adapter, err := ForSource(batch.SourceType)
	if err != nil {
		return s.fail(ctx, batch, err)
	}
	parsed, err := adapter.Parse(batch.Payload)
	if err != nil {
		// Batch-level fault: the source itself could not be read.
		return s.fail(ctx, batch, err)
	}
	if s.maxRows > 0 && len(parsed) > s.maxRows {
		return s.fail(ctx, batch, fmt.Errorf("batch has %d rows, limit is %d", len(parsed), s.maxRows))
	}

	for _, pr := range parsed {
		batch.TotalRecords++
		switch {
		case pr.Err != nil:
			batch.FailedRecords++
			batch.RowErrors = append(batch.RowErrors, domain.RowError{Row: pr.Row.Line, Message: pr.Err.Error()})
		default:
			if err := s.commitRow(ctx, scope, batch, pr.Row); err != nil {
				var conflict *domain.ConflictError
				if errors.As(err, &conflict) {
					batch.DuplicateRecords++
					break
				}
				batch.FailedRecords++
				batch.RowErrors = append(batch.RowErrors, domain.RowError{Row: pr.Row.Line, Message: err.Error()})
				break
			}
			batch.SuccessfulRecords++
		}
		// Flush counters so a client polling the batch sees live progress.
		// The flush is advisory; Finish writes the authoritative totals.
		if err := s.batchRepo.UpdateCounters(ctx, batch); err != nil {
			logger.Warn("Failed to flush import batch counters", "batch_id", batch.ID, "error", err)
		}
	}

	// Partial success is still a completed batch; FAILED is reserved for
	// batch-level faults.
	batch.Status = domain.BatchStatusCompleted
	batch.NeedsReview = batch.FailedRecords > 0
	if err := s.batchRepo.Finish(ctx, batch); err != nil {
		return nil, err
	}
	logger.Info("Import batch completed", "batch_id", batch.ID, "store_id", batch.StoreID,
		"total", batch.TotalRecords, "successful", batch.SuccessfulRecords,
		"failed", batch.FailedRecords, "duplicate", batch.DuplicateRecords)
	return batch, nil
}

// commitRow writes one normalized row into the ledger in PENDING status.
// Import never auto-approves.
func (s *importService) commitRow(ctx context.Context, scope domain.Scope, batch *domain.ImportBatch, row Row) error {
	if row.Amount.IsZero() {
		return errors.New("zero amount")
	}
	category, direction := classifyRow(row)
	externalRef := row.ExternalRef
	if externalRef == "" {
		// Manual sources may lack references; synthesize a stable one so
		// the fingerprint can still dedup reruns of the same file.
		externalRef = fmt.Sprintf("%s:%d:%s", batch.SourceType, row.Line, row.Date.Format("2006-01-02"))
	}

	_, err := s.ledger.RecordTransaction(ctx, scope, service.RecordTransactionInput{
		StoreID:      batch.StoreID,
		Direction:    direction,
		Category:     category,
		Amount:       row.Amount.Abs(),
		Currency:     row.Currency,
		ExchangeRate: row.ExchangeRate,
		OccurredOn:   row.Date,
		Description:  row.Description,
		ExternalRef:  externalRef,
	})
	return err
}

func (s *importService) fail(ctx context.Context, batch *domain.ImportBatch, cause error) (*domain.ImportBatch, error) {
	batch.Status = domain.BatchStatusFailed
	batch.ErrorDetail = cause.Error()
	batch.Reprocessable = true
	if err := s.batchRepo.Finish(ctx, batch); err != nil {
		return nil, err
	}
	logger.Error("Import batch failed", "batch_id", batch.ID, "error", cause)
	return batch, nil
}

func (s *importService) checkStore(ctx context.Context, scope domain.Scope, storeID int64) error {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.CompanyID != scope.CompanyID || !scope.CanAccessStore(storeID) {
		return fmt.Errorf("store %d is not accessible to user %d", storeID, scope.UserID)
	}
	return nil
}

// classifyRow maps a source category hint and amount sign onto the closed
// category enumeration.
func classifyRow(row Row) (domain.TransactionCategory, domain.TransactionDirection) {
	income := row.Amount.IsPositive()
	switch row.CategoryHint {
	case "sale", "sales", "payment", "payout":
		if income {
			return domain.CategorySales, domain.DirectionIncome
		}
	case "refund", "chargeback":
		return domain.CategoryRefund, domain.DirectionExpense
	case "fee", "fees":
		return domain.CategoryProcessorFees, domain.DirectionExpense
	case "shipping":
		return domain.CategoryShipping, domain.DirectionExpense
	case "inventory":
		return domain.CategoryInventory, domain.DirectionExpense
	case "advertising", "ads", "marketing":
		return domain.CategoryAdvertising, domain.DirectionExpense
	case "payroll", "salary":
		return domain.CategoryPayroll, domain.DirectionExpense
	}
	if income {
		return domain.CategoryOtherIncome, domain.DirectionIncome
	}
	return domain.CategoryOtherExpense, domain.DirectionExpense
}
