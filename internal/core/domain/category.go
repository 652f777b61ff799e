package domain

import "time"

// EntryKind distinguishes money coming in from money going out. Shared by
// categories and transactions.
type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// Valid reports whether k is one of the two known kinds.
func (k EntryKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Category is a user-defined bucket for transactions. Names are unique per
// account, case-insensitively.
type Category struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Name      string    `json:"name"`
	Kind      EntryKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
