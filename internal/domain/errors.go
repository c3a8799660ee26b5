package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidExchangeRateError is returned when a non-reporting-currency
// transaction carries a missing, zero, or negative exchange rate.
type InvalidExchangeRateError struct {
	Currency string
	Rate     decimal.Decimal
}

func (e *InvalidExchangeRateError) Error() string {
	return fmt.Sprintf("invalid exchange rate %s for currency %s: rate must be positive", e.Rate, e.Currency)
}

// CategoryDirectionMismatchError is returned when a category's static
// classification disagrees with the supplied direction.
type CategoryDirectionMismatchError struct {
	Category  TransactionCategory
	Direction TransactionDirection
}

func (e *CategoryDirectionMismatchError) Error() string {
	return fmt.Sprintf("category %s does not permit direction %s", e.Category, e.Direction)
}

type UnknownCategoryError struct {
	Category TransactionCategory
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown transaction category %q", e.Category)
}

// OwnershipExceededError is returned when a partnership write would push a
// store's active ownership total above 100%.
type OwnershipExceededError struct {
	StoreID   int64
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *OwnershipExceededError) Error() string {
	return fmt.Sprintf("ownership percentage %s exceeds the %s%% available on store %d",
		e.Requested, e.Available, e.StoreID)
}

// InvalidSettlementStateError is returned when a settlement transition is
// attempted from the wrong source state.
type InvalidSettlementStateError struct {
	SettlementID int64
	Current      SettlementStatus
	Required     SettlementStatus
}

func (e *InvalidSettlementStateError) Error() string {
	return fmt.Sprintf("settlement %d is %s, must be %s", e.SettlementID, e.Current, e.Required)
}

// ConflictError is returned when a compare-and-swap status transition loses
// to a concurrent writer. Callers may retry or surface "already processed".
type ConflictError struct {
	Entity  string
	ID      int64
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %d: %s", e.Entity, e.ID, e.Message)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
