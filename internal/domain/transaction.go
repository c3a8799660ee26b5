package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionDirection string

const (
	DirectionIncome   TransactionDirection = "INCOME"
	DirectionExpense  TransactionDirection = "EXPENSE"
	DirectionPersonal TransactionDirection = "PERSONAL"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

type TransactionCategory string

const (
	CategorySales             TransactionCategory = "SALES"
	CategoryOtherIncome       TransactionCategory = "OTHER_INCOME"
	CategoryPartnerRepayment  TransactionCategory = "PARTNER_REPAYMENT"
	CategoryInventory         TransactionCategory = "INVENTORY"
	CategoryAdvertising       TransactionCategory = "ADVERTISING"
	CategoryShipping          TransactionCategory = "SHIPPING"
	CategoryProcessorFees     TransactionCategory = "PROCESSOR_FEES"
	CategoryRefund            TransactionCategory = "REFUND"
	CategoryPayroll           TransactionCategory = "PAYROLL"
	CategoryOtherExpense      TransactionCategory = "OTHER_EXPENSE"
	CategoryPersonalExpense   TransactionCategory = "PERSONAL_EXPENSE"
	CategoryBalanceAdjustment TransactionCategory = "BALANCE_ADJUSTMENT"
)

// CategoryInfo is the static classification of a category. Bidirectional
// categories (balance adjustments) accept either INCOME or EXPENSE depending
// on the sign of the correction being recorded.
type CategoryInfo struct {
	Direction     TransactionDirection
	Label         string
	Bidirectional bool
}

var categories = map[TransactionCategory]CategoryInfo{
	CategorySales:             {Direction: DirectionIncome, Label: "Sales"},
	CategoryOtherIncome:       {Direction: DirectionIncome, Label: "Other Income"},
	CategoryPartnerRepayment:  {Direction: DirectionIncome, Label: "Partner Repayment"},
	CategoryInventory:         {Direction: DirectionExpense, Label: "Inventory"},
	CategoryAdvertising:       {Direction: DirectionExpense, Label: "Advertising"},
	CategoryShipping:          {Direction: DirectionExpense, Label: "Shipping"},
	CategoryProcessorFees:     {Direction: DirectionExpense, Label: "Processor Fees"},
	CategoryRefund:            {Direction: DirectionExpense, Label: "Refunds"},
	CategoryPayroll:           {Direction: DirectionExpense, Label: "Payroll"},
	CategoryOtherExpense:      {Direction: DirectionExpense, Label: "Other Expense"},
	CategoryPersonalExpense:   {Direction: DirectionPersonal, Label: "Personal Expense"},
	CategoryBalanceAdjustment: {Direction: DirectionExpense, Label: "Balance Adjustment", Bidirectional: true},
}

// LookupCategory resolves a category's static classification.
func LookupCategory(c TransactionCategory) (CategoryInfo, error) {
	info, ok := categories[c]
	if !ok {
		return CategoryInfo{}, &UnknownCategoryError{Category: c}
	}
	return info, nil
}

// ValidateCategoryDirection checks that the supplied direction matches the
// category's static classification.
func ValidateCategoryDirection(c TransactionCategory, d TransactionDirection) error {
	info, err := LookupCategory(c)
	if err != nil {
		return err
	}
	if info.Bidirectional {
		if d == DirectionIncome || d == DirectionExpense {
			return nil
		}
		return &CategoryDirectionMismatchError{Category: c, Direction: d}
	}
	if info.Direction != d {
		return &CategoryDirectionMismatchError{Category: c, Direction: d}
	}
	return nil
}

type ProcessorType string

const (
	ProcessorStripe   ProcessorType = "STRIPE"
	ProcessorPayPal   ProcessorType = "PAYPAL"
	ProcessorShopPay  ProcessorType = "SHOP_PAY"
	ProcessorManual   ProcessorType = "MANUAL"
	ProcessorExternal ProcessorType = "EXTERNAL"
)

type Transaction struct {
	ID              int64                `json:"id"`
	StoreID         int64                `json:"store_id"`
	Direction       TransactionDirection `json:"direction"`
	Category        TransactionCategory  `json:"category"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        string               `json:"currency"`
	ExchangeRate    decimal.Decimal      `json:"exchange_rate"`
	ReportingAmount decimal.Decimal      `json:"reporting_amount"` // amount * exchange_rate, rounded to 2; immutable
	Status          TransactionStatus    `json:"status"`
	OccurredOn      time.Time            `json:"occurred_on"`
	PartnershipID   *int64               `json:"partnership_id,omitempty"`
	Description     string               `json:"description"`
	ExternalRef     string               `json:"external_ref,omitempty"`
	Fingerprint     string               `json:"-"`
	ImportBatchID   *uuid.UUID           `json:"import_batch_id,omitempty"`
	Processor       ProcessorType        `json:"processor,omitempty"`
	IsPersonal      bool                 `json:"is_personal_expense"`
	IsAdjustment    bool                 `json:"is_adjustment"`
	IsPendingPayout bool                 `json:"is_pending_payout"`
	Metadata        string               `json:"metadata,omitempty"` // JSONB stored as string
	ApprovedBy      *int64               `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// AffectsDebt reports whether approving this transaction moves a partner's
// debt balance, and by how much. Personal expenses increase debt, partner
// repayments decrease it.
func (t *Transaction) AffectsDebt() (decimal.Decimal, bool) {
	if t.PartnershipID == nil {
		return decimal.Zero, false
	}
	switch {
	case t.IsPersonal || t.Category == CategoryPersonalExpense:
		return t.ReportingAmount, true
	case t.Category == CategoryPartnerRepayment:
		return t.ReportingAmount.Neg(), true
	}
	return decimal.Zero, false
}

// TransactionFilter narrows ledger queries. Zero values mean "no filter".
type TransactionFilter struct {
	Status    TransactionStatus
	Category  TransactionCategory
	Direction TransactionDirection
	From      *time.Time
	To        *time.Time
	Page      int32
	PageSize  int32
}
