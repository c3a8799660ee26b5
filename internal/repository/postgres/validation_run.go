package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type validationRunRepository struct {
	db *sql.DB
}

func NewValidationRunRepository(db *sql.DB) repository.ValidationRunRepository {
	return &validationRunRepository{db: db}
}

func (r *validationRunRepository) Create(ctx context.Context, result *domain.ValidationResult) error {
	breakdown, err := json.Marshal(struct {
		Accounts []domain.AccountBreakdown `json:"accounts"`
		Stores   []domain.StoreBreakdown   `json:"stores"`
	}{result.Accounts, result.Stores})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO validation_runs (company_id, real_money_total, calculated_balance, difference,
		   tolerance, is_valid, breakdown, run_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.CompanyID, result.RealMoneyTotal, result.CalculatedBalance, result.Difference,
		result.Tolerance, result.IsValid, breakdown, result.RunAt)
	if err != nil {
		return fmt.Errorf("insert validation run: %w", err)
	}
	return nil
}

func (r *validationRunRepository) ListByCompany(ctx context.Context, companyID int64, limit int32) ([]domain.ValidationResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT company_id, real_money_total, calculated_balance, difference, tolerance, is_valid,
		   breakdown, run_at
		 FROM validation_runs WHERE company_id = $1 ORDER BY run_at DESC LIMIT $2`,
		companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ValidationResult
	for rows.Next() {
		var res domain.ValidationResult
		var breakdown []byte
		if err := rows.Scan(&res.CompanyID, &res.RealMoneyTotal, &res.CalculatedBalance,
			&res.Difference, &res.Tolerance, &res.IsValid, &breakdown, &res.RunAt); err != nil {
			return nil, err
		}
		var decoded struct {
			Accounts []domain.AccountBreakdown `json:"accounts"`
			Stores   []domain.StoreBreakdown   `json:"stores"`
		}
		if err := json.Unmarshal(breakdown, &decoded); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		res.Accounts = decoded.Accounts
		res.Stores = decoded.Stores
		results = append(results, res)
	}
	return results, rows.Err()
}
