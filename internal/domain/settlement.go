package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettlementType string

const (
	SettlementTypePayment     SettlementType = "payment"      // partner pays down debt
	SettlementTypeWithdrawal  SettlementType = "withdrawal"   // partner draws funds
	SettlementTypeExpense     SettlementType = "expense"      // company covered a partner expense
	SettlementTypeAdjustment  SettlementType = "adjustment"   // manual signed correction
	SettlementTypeProfitShare SettlementType = "profit_share" // profit distribution
)

type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "pending"
	SettlementStatusApproved  SettlementStatus = "approved"
	SettlementStatusRejected  SettlementStatus = "rejected"
	SettlementStatusCompleted SettlementStatus = "completed"
)

// Settlement is a discrete, approvable adjustment of a partnership's debt
// balance. The debt delta is applied exactly once, at approval.
type Settlement struct {
	ID              int64            `json:"id"`
	PartnershipID   int64            `json:"partnership_id"`
	Type            SettlementType   `json:"settlement_type"`
	Status          SettlementStatus `json:"status"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	PreviousBalance decimal.Decimal  `json:"previous_debt_balance"`
	InitiatorID     int64            `json:"initiator_id"`
	ApproverID      *int64           `json:"approver_id,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	RequestedAt     time.Time        `json:"requested_at"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// DebtDelta returns the signed amount this settlement applies to the
// partnership's debt balance when approved. Payments and profit shares
// reduce debt; withdrawals and expenses increase it; adjustments carry
// their sign as given.
func (s *Settlement) DebtDelta() decimal.Decimal {
	switch s.Type {
	case SettlementTypePayment, SettlementTypeProfitShare:
		return s.Amount.Neg()
	case SettlementTypeWithdrawal, SettlementTypeExpense:
		return s.Amount
	case SettlementTypeAdjustment:
		return s.Amount
	}
	return decimal.Zero
}
