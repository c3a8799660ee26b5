package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// BankAccount is a real-world cash position outside the ledger. Balances in
// a non-reporting currency carry a supplied, timestamped conversion rate.
type BankAccount struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	RateUpdatedAt  time.Time       `json:"rate_updated_at"`
	Status         AccountStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PaymentProcessorAccount additionally tracks funds captured but not yet
// paid out by the processor.
type PaymentProcessorAccount struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	Name           string          `json:"name"`
	Processor      ProcessorType   `json:"processor"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	RateUpdatedAt  time.Time       `json:"rate_updated_at"`
	Status         AccountStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
