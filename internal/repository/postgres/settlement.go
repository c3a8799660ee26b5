package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type settlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) repository.SettlementRepository {
	return &settlementRepository{db: db}
}

const settlementColumns = `id, partnership_id, settlement_type, status, amount, currency,
	previous_debt_balance, initiator_id, approver_id, COALESCE(reference, ''),
	COALESCE(rejection_reason, ''), COALESCE(notes, ''), requested_at, approved_at,
	rejected_at, completed_at`

func (r *settlementRepository) Create(ctx context.Context, s *domain.Settlement) error {
	query := `INSERT INTO settlements (partnership_id, settlement_type, status, amount, currency,
	            previous_debt_balance, initiator_id, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
	          RETURNING id, requested_at`
	err := r.db.QueryRowContext(ctx, query,
		s.PartnershipID, s.Type, s.Status, s.Amount, s.Currency,
		s.PreviousBalance, s.InitiatorID, s.Notes,
	).Scan(&s.ID, &s.RequestedAt)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (r *settlementRepository) GetByID(ctx context.Context, id int64) (*domain.Settlement, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id)
	s, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "settlement", ID: fmt.Sprint(id)}
	}
	return s, err
}

func (r *settlementRepository) ListByPartnership(ctx context.Context, partnershipID int64, status domain.SettlementStatus) ([]domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE partnership_id = $1`
	args := []any{partnershipID}
	if status != "" {
		args = append(args, status)
		query += " AND status = $2"
	}
	query += " ORDER BY requested_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ss []domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		ss = append(ss, *s)
	}
	return ss, rows.Err()
}

// Approve swaps pending -> approved, snapshots the pre-adjustment debt
// balance, and applies the delta, all inside one database transaction. A
// lost swap returns the status found so the service can fail loudly.
func (r *settlementRepository) Approve(ctx context.Context, id int64, approverID int64, reference string, delta decimal.Decimal, partnershipID int64) (domain.SettlementStatus, bool, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer dbTx.Rollback()

	var previous decimal.Decimal
	err = dbTx.QueryRowContext(ctx,
		`SELECT debt_balance FROM partnerships WHERE id = $1 FOR UPDATE`, partnershipID).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, &domain.NotFoundError{Entity: "partnership", ID: fmt.Sprint(partnershipID)}
	}
	if err != nil {
		return "", false, err
	}

	res, err := dbTx.ExecContext(ctx,
		`UPDATE settlements SET status = $1, approver_id = $2, reference = NULLIF($3, ''),
		   previous_debt_balance = $4, approved_at = now()
		 WHERE id = $5 AND status = $6`,
		domain.SettlementStatusApproved, approverID, reference, previous, id, domain.SettlementStatusPending)
	if err != nil {
		return "", false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n == 0 {
		current, err := r.currentStatus(ctx, dbTx, id)
		if err != nil {
			return "", false, err
		}
		return current, false, dbTx.Commit()
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE partnerships SET debt_balance = debt_balance + $1, updated_at = now() WHERE id = $2`,
		delta, partnershipID)
	if err != nil {
		return "", false, err
	}
	return domain.SettlementStatusApproved, true, dbTx.Commit()
}

func (r *settlementRepository) Reject(ctx context.Context, id int64, approverID int64, reason string) (domain.SettlementStatus, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settlements SET status = $1, approver_id = $2, rejection_reason = $3, rejected_at = now()
		 WHERE id = $4 AND status = $5`,
		domain.SettlementStatusRejected, approverID, reason, id, domain.SettlementStatusPending)
	if err != nil {
		return "", false, err
	}
	return r.swapOutcome(ctx, id, res, domain.SettlementStatusRejected)
}

func (r *settlementRepository) Complete(ctx context.Context, id int64) (domain.SettlementStatus, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settlements SET status = $1, completed_at = now()
		 WHERE id = $2 AND status = $3`,
		domain.SettlementStatusCompleted, id, domain.SettlementStatusApproved)
	if err != nil {
		return "", false, err
	}
	return r.swapOutcome(ctx, id, res, domain.SettlementStatusCompleted)
}

func (r *settlementRepository) swapOutcome(ctx context.Context, id int64, res sql.Result, applied domain.SettlementStatus) (domain.SettlementStatus, bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n > 0 {
		return applied, true, nil
	}
	current, err := r.currentStatus(ctx, r.db, id)
	return current, false, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *settlementRepository) currentStatus(ctx context.Context, q queryRower, id int64) (domain.SettlementStatus, error) {
	var current domain.SettlementStatus
	err := q.QueryRowContext(ctx, `SELECT status FROM settlements WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &domain.NotFoundError{Entity: "settlement", ID: fmt.Sprint(id)}
	}
	return current, err
}

func scanSettlement(row rowScanner) (*domain.Settlement, error) {
	var s domain.Settlement
	err := row.Scan(
		&s.ID, &s.PartnershipID, &s.Type, &s.Status, &s.Amount, &s.Currency,
		&s.PreviousBalance, &s.InitiatorID, &s.ApproverID, &s.Reference,
		&s.RejectionReason, &s.Notes, &s.RequestedAt, &s.ApprovedAt,
		&s.RejectedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
