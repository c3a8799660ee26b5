package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, store_id, direction, category, amount, currency, exchange_rate,
	reporting_amount, status, occurred_on, partnership_id, COALESCE(description, ''),
	COALESCE(external_ref, ''), COALESCE(fingerprint, ''), import_batch_id, COALESCE(processor, ''),
	is_personal_expense, is_adjustment, is_pending_payout, COALESCE(metadata, ''),
	approved_by, approved_at, created_at, updated_at`

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return insertTransaction(ctx, r.db, tx)
}

// CreateWithDebt inserts a transaction born APPROVED and applies its partner
// debt delta atomically. A failure on either side rolls back both.
func (r *transactionRepository) CreateWithDebt(ctx context.Context, tx *domain.Transaction, debtDelta decimal.Decimal) error {
	if tx.PartnershipID == nil {
		return errors.New("debt-affecting transaction requires a partnership")
	}
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}
	if !debtDelta.IsZero() {
		_, err = dbTx.ExecContext(ctx,
			`UPDATE partnerships SET debt_balance = debt_balance + $1, updated_at = now() WHERE id = $2`,
			debtDelta, *tx.PartnershipID)
		if err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

func insertTransaction(ctx context.Context, q queryRower, tx *domain.Transaction) error {
	query := `INSERT INTO transactions (store_id, direction, category, amount, currency, exchange_rate,
	            reporting_amount, status, occurred_on, partnership_id, description, external_ref,
	            fingerprint, import_batch_id, processor, is_personal_expense, is_adjustment,
	            is_pending_payout, metadata, approved_by, approved_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''),
	            $14, NULLIF($15, ''), $16, $17, $18, NULLIF($19, ''), $20, $21)
	          RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		tx.StoreID, tx.Direction, tx.Category, tx.Amount, tx.Currency, tx.ExchangeRate,
		tx.ReportingAmount, tx.Status, tx.OccurredOn, tx.PartnershipID, tx.Description,
		tx.ExternalRef, tx.Fingerprint, tx.ImportBatchID, string(tx.Processor),
		tx.IsPersonal, tx.IsAdjustment, tx.IsPendingPayout, tx.Metadata,
		tx.ApprovedBy, tx.ApprovedAt,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return &domain.ConflictError{Entity: "transaction", Message: "duplicate fingerprint"}
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "transaction", ID: fmt.Sprint(id)}
	}
	return tx, err
}

func (r *transactionRepository) List(ctx context.Context, storeID int64, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	where := "WHERE store_id = $1"
	args := []any{storeID}
	add := func(clause string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}
	if filter.Status != "" {
		add("status =", filter.Status)
	}
	if filter.Category != "" {
		add("category =", filter.Category)
	}
	if filter.Direction != "" {
		add("direction =", filter.Direction)
	}
	if filter.From != nil {
		add("occurred_on >=", *filter.From)
	}
	if filter.To != nil {
		add("occurred_on <", *filter.To)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM transactions "+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + transactionColumns + " FROM transactions " + where + " ORDER BY occurred_on DESC, id DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *tx)
	}
	return txs, count, rows.Err()
}

func (r *transactionRepository) Approve(ctx context.Context, id int64, approverID int64, debtDelta decimal.Decimal, partnershipID *int64) (domain.TransactionStatus, bool, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`UPDATE transactions SET status = $1, approved_by = $2, approved_at = now(), updated_at = now()
		 WHERE id = $3 AND status = $4`,
		domain.TransactionStatusApproved, approverID, id, domain.TransactionStatusPending)
	if err != nil {
		return "", false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n == 0 {
		var current domain.TransactionStatus
		err := dbTx.QueryRowContext(ctx, `SELECT status FROM transactions WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, &domain.NotFoundError{Entity: "transaction", ID: fmt.Sprint(id)}
		}
		if err != nil {
			return "", false, err
		}
		return current, false, dbTx.Commit()
	}

	if partnershipID != nil && !debtDelta.IsZero() {
		_, err = dbTx.ExecContext(ctx,
			`UPDATE partnerships SET debt_balance = debt_balance + $1, updated_at = now() WHERE id = $2`,
			debtDelta, *partnershipID)
		if err != nil {
			return "", false, err
		}
	}
	return domain.TransactionStatusApproved, true, dbTx.Commit()
}

func (r *transactionRepository) Reject(ctx context.Context, id int64, approverID int64) (domain.TransactionStatus, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = $1, approved_by = $2, updated_at = now()
		 WHERE id = $3 AND status = $4`,
		domain.TransactionStatusRejected, approverID, id, domain.TransactionStatusPending)
	if err != nil {
		return "", false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n == 0 {
		var current domain.TransactionStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM transactions WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, &domain.NotFoundError{Entity: "transaction", ID: fmt.Sprint(id)}
		}
		return current, false, err
	}
	return domain.TransactionStatusRejected, true, nil
}

func (r *transactionRepository) SumByDirection(ctx context.Context, storeID int64, direction domain.TransactionDirection, from, to *time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(reporting_amount), 0) FROM transactions
	          WHERE store_id = $1 AND direction = $2 AND status = $3`
	args := []any{storeID, direction, domain.TransactionStatusApproved}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND occurred_on >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND occurred_on < $%d", len(args))
	}
	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var processor string
	err := row.Scan(
		&tx.ID, &tx.StoreID, &tx.Direction, &tx.Category, &tx.Amount, &tx.Currency,
		&tx.ExchangeRate, &tx.ReportingAmount, &tx.Status, &tx.OccurredOn, &tx.PartnershipID,
		&tx.Description, &tx.ExternalRef, &tx.Fingerprint, &tx.ImportBatchID, &processor,
		&tx.IsPersonal, &tx.IsAdjustment, &tx.IsPendingPayout, &tx.Metadata,
		&tx.ApprovedBy, &tx.ApprovedAt, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Processor = domain.ProcessorType(processor)
	return &tx, nil
}
