package domain

import "time"

// Transaction records a single money movement on an account. CategoryID is
// optional; uncategorised transactions are valid.
type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Amount      float64   `json:"amount"`
	Kind        EntryKind `json:"kind"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
