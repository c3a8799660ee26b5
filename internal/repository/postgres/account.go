package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) ListActiveBankAccounts(ctx context.Context, companyID int64) ([]domain.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, company_id, name, currency, current_balance, exchange_rate, rate_updated_at,
		   status, created_at, updated_at
		 FROM bank_accounts WHERE company_id = $1 AND status = $2 ORDER BY id`,
		companyID, domain.AccountStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Currency, &a.CurrentBalance,
			&a.ExchangeRate, &a.RateUpdatedAt, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) ListActiveProcessorAccounts(ctx context.Context, companyID int64) ([]domain.PaymentProcessorAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, company_id, name, processor, currency, current_balance, pending_balance,
		   exchange_rate, rate_updated_at, status, created_at, updated_at
		 FROM payment_processor_accounts WHERE company_id = $1 AND status = $2 ORDER BY id`,
		companyID, domain.AccountStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.PaymentProcessorAccount
	for rows.Next() {
		var a domain.PaymentProcessorAccount
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Processor, &a.Currency,
			&a.CurrentBalance, &a.PendingBalance, &a.ExchangeRate, &a.RateUpdatedAt,
			&a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) UpdateBankBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bank_accounts SET current_balance = $1, updated_at = now() WHERE id = $2`,
		balance, id)
	return err
}

func (r *accountRepository) UpdateProcessorBalances(ctx context.Context, id int64, current, pending decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_processor_accounts SET current_balance = $1, pending_balance = $2,
		   updated_at = now() WHERE id = $3`,
		current, pending, id)
	return err
}
