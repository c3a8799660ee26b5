package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type importBatchRepository struct {
	db *sql.DB
}

func NewImportBatchRepository(db *sql.DB) repository.ImportBatchRepository {
	return &importBatchRepository{db: db}
}

const importBatchColumns = `id, company_id, store_id, source_type, import_type,
	COALESCE(file_name, ''), COALESCE(file_size, 0), status, total_records, successful_records,
	failed_records, duplicate_records, COALESCE(error_detail, ''), COALESCE(row_errors, '[]'),
	needs_review, reprocessable, payload, initiated_by, started_at, completed_at, created_at`

func (r *importBatchRepository) Create(ctx context.Context, b *domain.ImportBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `INSERT INTO import_batches (id, company_id, store_id, source_type, import_type,
	            file_name, file_size, status, payload, initiated_by, needs_review, reprocessable)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.CompanyID, b.StoreID, b.SourceType, b.ImportType,
		b.FileName, b.FileSize, b.Status, b.Payload, b.InitiatedBy, b.NeedsReview, b.Reprocessable,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert import batch: %w", err)
	}
	return nil
}

func (r *importBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportBatch, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+importBatchColumns+` FROM import_batches WHERE id = $1`, id)
	b, err := scanImportBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "import batch", ID: id.String()}
	}
	return b, err
}

func (r *importBatchRepository) ListByCompany(ctx context.Context, companyID int64, page, pageSize int32) ([]domain.ImportBatch, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM import_batches WHERE company_id = $1`, companyID).Scan(&count); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+importBatchColumns+` FROM import_batches WHERE company_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var batches []domain.ImportBatch
	for rows.Next() {
		b, err := scanImportBatch(rows)
		if err != nil {
			return nil, 0, err
		}
		batches = append(batches, *b)
	}
	return batches, count, rows.Err()
}

func (r *importBatchRepository) ListReprocessable(ctx context.Context, limit int32) ([]domain.ImportBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+importBatchColumns+` FROM import_batches
		 WHERE status = $1 AND reprocessable ORDER BY created_at LIMIT $2`,
		domain.BatchStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []domain.ImportBatch
	for rows.Next() {
		b, err := scanImportBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

func (r *importBatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ImportBatchStatus) (bool, error) {
	set := `status = $1`
	if to == domain.BatchStatusProcessing {
		set += `, started_at = now()`
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE import_batches SET `+set+` WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *importBatchRepository) UpdateCounters(ctx context.Context, b *domain.ImportBatch) error {
	rowErrors, err := json.Marshal(b.RowErrors)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE import_batches SET total_records = $1, successful_records = $2, failed_records = $3,
		   duplicate_records = $4, row_errors = $5 WHERE id = $6`,
		b.TotalRecords, b.SuccessfulRecords, b.FailedRecords, b.DuplicateRecords, rowErrors, b.ID)
	return err
}

func (r *importBatchRepository) Finish(ctx context.Context, b *domain.ImportBatch) error {
	rowErrors, err := json.Marshal(b.RowErrors)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE import_batches SET status = $1, total_records = $2, successful_records = $3,
		   failed_records = $4, duplicate_records = $5, error_detail = NULLIF($6, ''),
		   row_errors = $7, needs_review = $8, completed_at = now()
		 WHERE id = $9`,
		b.Status, b.TotalRecords, b.SuccessfulRecords, b.FailedRecords, b.DuplicateRecords,
		b.ErrorDetail, rowErrors, b.NeedsReview, b.ID)
	return err
}

func scanImportBatch(row rowScanner) (*domain.ImportBatch, error) {
	var b domain.ImportBatch
	var rowErrors []byte
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.StoreID, &b.SourceType, &b.ImportType,
		&b.FileName, &b.FileSize, &b.Status, &b.TotalRecords, &b.SuccessfulRecords,
		&b.FailedRecords, &b.DuplicateRecords, &b.ErrorDetail, &rowErrors,
		&b.NeedsReview, &b.Reprocessable, &b.Payload, &b.InitiatedBy,
		&b.StartedAt, &b.CompletedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rowErrors) > 0 {
		if err := json.Unmarshal(rowErrors, &b.RowErrors); err != nil {
			return nil, fmt.Errorf("decode row errors: %w", err)
		}
	}
	return &b, nil
}
