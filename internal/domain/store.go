package domain

import "time"

type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusInactive StoreStatus = "INACTIVE"
)

// Store is one sales channel belonging to a company. Its currency is the
// default for new transactions, not a constraint on them.
type Store struct {
	ID        int64       `json:"id"`
	CompanyID int64       `json:"company_id"`
	Name      string      `json:"name"`
	Platform  string      `json:"platform,omitempty"`
	Currency  string      `json:"currency"`
	Status    StoreStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
