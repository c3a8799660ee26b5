package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

// ownershipTolerance absorbs repeating-fraction rounding (thirds split as
// 33.33/33.33/33.34 must still validate as a full 100%).
var ownershipTolerance = decimal.NewFromFloat(0.01)

type partnershipRepository struct {
	db *sql.DB
}

func NewPartnershipRepository(db *sql.DB) repository.PartnershipRepository {
	return &partnershipRepository{db: db}
}

const partnershipColumns = `id, store_id, user_id, role, status, ownership_percentage,
	debt_balance, start_date, end_date, created_at, updated_at`

func (r *partnershipRepository) Create(ctx context.Context, p *domain.Partnership) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	// Only ACTIVE rows consume the ownership pool; a PENDING or INACTIVE
	// partnership may be created on a fully-owned store and is guarded when
	// it is activated.
	if p.Status == domain.PartnershipStatusActive {
		if err := guardOwnership(ctx, dbTx, p.StoreID, 0, p.OwnershipPercentage); err != nil {
			return err
		}
	}

	query := `INSERT INTO partnerships (store_id, user_id, role, status, ownership_percentage,
	            debt_balance, start_date, end_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	err = dbTx.QueryRowContext(ctx, query,
		p.StoreID, p.UserID, p.Role, p.Status, p.OwnershipPercentage,
		p.DebtBalance, p.StartDate, p.EndDate,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert partnership: %w", err)
	}
	return dbTx.Commit()
}

func (r *partnershipRepository) GetByID(ctx context.Context, id int64) (*domain.Partnership, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+partnershipColumns+` FROM partnerships WHERE id = $1`, id)
	p, err := scanPartnership(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "partnership", ID: fmt.Sprint(id)}
	}
	return p, err
}

func (r *partnershipRepository) ListByStore(ctx context.Context, storeID int64, status domain.PartnershipStatus) ([]domain.Partnership, error) {
	query := `SELECT ` + partnershipColumns + ` FROM partnerships WHERE store_id = $1`
	args := []any{storeID}
	if status != "" {
		args = append(args, status)
		query += " AND status = $2"
	}
	query += " ORDER BY start_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps []domain.Partnership
	for rows.Next() {
		p, err := scanPartnership(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, *p)
	}
	return ps, rows.Err()
}

func (r *partnershipRepository) UpdatePercentage(ctx context.Context, id int64, percentage decimal.Decimal) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	var storeID int64
	err = dbTx.QueryRowContext(ctx, `SELECT store_id FROM partnerships WHERE id = $1`, id).Scan(&storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: "partnership", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return err
	}

	if err := guardOwnership(ctx, dbTx, storeID, id, percentage); err != nil {
		return err
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE partnerships SET ownership_percentage = $1, updated_at = now() WHERE id = $2`,
		percentage, id)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}

func (r *partnershipRepository) UpdateStatus(ctx context.Context, id int64, status domain.PartnershipStatus, endDate *time.Time) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	var (
		storeID    int64
		percentage decimal.Decimal
		current    domain.PartnershipStatus
	)
	err = dbTx.QueryRowContext(ctx,
		`SELECT store_id, ownership_percentage, status FROM partnerships WHERE id = $1 FOR UPDATE`,
		id).Scan(&storeID, &percentage, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: "partnership", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return err
	}

	// Activation re-enters the ownership pool and must pass the same guard
	// as a create.
	if status == domain.PartnershipStatusActive && current != domain.PartnershipStatusActive {
		if err := guardOwnership(ctx, dbTx, storeID, id, percentage); err != nil {
			return err
		}
	}

	_, err = dbTx.ExecContext(ctx,
		`UPDATE partnerships SET status = $1, end_date = $2, updated_at = now() WHERE id = $3`,
		status, endDate, id)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}

func (r *partnershipRepository) SumActiveOwnership(ctx context.Context, storeID int64, excludeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ownership_percentage), 0) FROM partnerships
		 WHERE store_id = $1 AND status = $2 AND id <> $3`,
		storeID, domain.PartnershipStatusActive, excludeID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *partnershipRepository) AdjustDebt(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`UPDATE partnerships SET debt_balance = debt_balance + $1, updated_at = now()
		 WHERE id = $2 RETURNING debt_balance`,
		delta, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, &domain.NotFoundError{Entity: "partnership", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// guardOwnership locks the store row so two concurrent partnership writes
// cannot individually pass validation and jointly exceed 100%. A CHECK-style
// trigger in the schema backstops it.
func guardOwnership(ctx context.Context, dbTx *sql.Tx, storeID, excludeID int64, requested decimal.Decimal) error {
	var locked int64
	err := dbTx.QueryRowContext(ctx, `SELECT id FROM stores WHERE id = $1 FOR UPDATE`, storeID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: "store", ID: fmt.Sprint(storeID)}
	}
	if err != nil {
		return err
	}

	var current decimal.Decimal
	err = dbTx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ownership_percentage), 0) FROM partnerships
		 WHERE store_id = $1 AND status = $2 AND id <> $3`,
		storeID, domain.PartnershipStatusActive, excludeID).Scan(&current)
	if err != nil {
		return err
	}

	hundred := decimal.NewFromInt(100)
	if current.Add(requested).GreaterThan(hundred.Add(ownershipTolerance)) {
		available := hundred.Sub(current)
		if available.IsNegative() {
			available = decimal.Zero
		}
		return &domain.OwnershipExceededError{StoreID: storeID, Requested: requested, Available: available}
	}
	return nil
}

func scanPartnership(row rowScanner) (*domain.Partnership, error) {
	var p domain.Partnership
	err := row.Scan(
		&p.ID, &p.StoreID, &p.UserID, &p.Role, &p.Status, &p.OwnershipPercentage,
		&p.DebtBalance, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
