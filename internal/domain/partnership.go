package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PartnershipStatus string

const (
	PartnershipStatusPending    PartnershipStatus = "PENDING"
	PartnershipStatusActive     PartnershipStatus = "ACTIVE"
	PartnershipStatusInactive   PartnershipStatus = "INACTIVE"
	PartnershipStatusTerminated PartnershipStatus = "TERMINATED"
)

type PartnershipRole string

const (
	RoleOwner    PartnershipRole = "OWNER"
	RolePartner  PartnershipRole = "PARTNER"
	RoleInvestor PartnershipRole = "INVESTOR"
)

type DebtStatus string

const (
	DebtStatusOwesMoney DebtStatus = "owes_money" // partner owes the company
	DebtStatusOwedMoney DebtStatus = "owed_money" // company owes the partner
	DebtStatusSettled   DebtStatus = "settled"
)

// Partnership binds one partner to one store with a fractional ownership
// percentage over a time range, and carries the partner's running debt
// balance. Positive debt means the partner has drawn more than entitled.
type Partnership struct {
	ID                  int64             `json:"id"`
	StoreID             int64             `json:"store_id"`
	UserID              int64             `json:"user_id"`
	Role                PartnershipRole   `json:"role"`
	Status              PartnershipStatus `json:"status"`
	OwnershipPercentage decimal.Decimal   `json:"ownership_percentage"`
	DebtBalance         decimal.Decimal   `json:"debt_balance"`
	StartDate           time.Time         `json:"start_date"`
	EndDate             *time.Time        `json:"end_date,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func (p *Partnership) DebtStatus() DebtStatus {
	switch {
	case p.DebtBalance.IsPositive():
		return DebtStatusOwesMoney
	case p.DebtBalance.IsNegative():
		return DebtStatusOwedMoney
	}
	return DebtStatusSettled
}
