package models

import (
	"time"
)

// Transaction status values. A transaction is created pending at payment or
// transfer initiation; the webhook path is the only place that completes it.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

// Transaction represents a provider payment attempt keyed by its reference
type Transaction struct {
	ID        string     `json:"id" db:"id"`
	Reference string     `json:"reference" db:"reference"`
	UserID    string     `json:"userId" db:"user_id"`
	Type      string     `json:"type" db:"type"`
	Status    string     `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	SettledAt *time.Time `json:"settledAt,omitempty" db:"settled_at"`
}

// IsCompleted reports whether the transaction already reached its terminal state.
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}
