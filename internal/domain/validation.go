package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBreakdown is one real-money account's contribution to a validation
// run, converted to the reporting currency.
type AccountBreakdown struct {
	AccountID      int64           `json:"account_id"`
	AccountType    string          `json:"account_type"` // "bank" or "processor"
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	NativeBalance  decimal.Decimal `json:"native_balance"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	ReportingValue decimal.Decimal `json:"reporting_value"`
}

// StoreBreakdown is one store's ledger-calculated balance contribution.
type StoreBreakdown struct {
	StoreID int64           `json:"store_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// ValidationResult compares ledger-derived balances against real-world cash
// positions. Discrepancies are data for human review, never auto-corrected.
type ValidationResult struct {
	CompanyID         int64              `json:"company_id"`
	RealMoneyTotal    decimal.Decimal    `json:"real_money_total"`
	CalculatedBalance decimal.Decimal    `json:"calculated_balance"`
	Difference        decimal.Decimal    `json:"difference"`
	Tolerance         decimal.Decimal    `json:"tolerance"`
	IsValid           bool               `json:"is_valid"`
	Accounts          []AccountBreakdown `json:"accounts"`
	Stores            []StoreBreakdown   `json:"stores"`
	RunAt             time.Time          `json:"run_at"`
}
