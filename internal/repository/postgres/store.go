package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type storeRepository struct {
	db *sql.DB
}

func NewStoreRepository(db *sql.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `INSERT INTO stores (company_id, name, platform, currency, status)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		store.CompanyID, store.Name, store.Platform, store.Currency, store.Status,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *storeRepository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, COALESCE(platform, ''), currency, status, created_at, updated_at
		 FROM stores WHERE id = $1`, id,
	).Scan(&s.ID, &s.CompanyID, &s.Name, &s.Platform, &s.Currency, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "store", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, company_id, name, COALESCE(platform, ''), currency, status, created_at, updated_at
		 FROM stores WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Platform, &s.Currency,
			&s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET name = $1, platform = NULLIF($2, ''), currency = $3, status = $4,
		   updated_at = now() WHERE id = $5`,
		store.Name, store.Platform, store.Currency, store.Status, store.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: "store", ID: fmt.Sprint(store.ID)}
	}
	return nil
}
