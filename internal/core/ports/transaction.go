package ports

import (
	"context"
	"time"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

// TransactionFilter narrows transaction listings. Zero time bounds mean
// unbounded.
type TransactionFilter struct {
	AccountID int64
	From      time.Time
	To        time.Time
	Page      int
	Limit     int
}

// TransactionPage is one page of transactions plus totals.
type TransactionPage struct {
	Items      []domain.Transaction `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// TransactionRepository persists transactions, owner-scoped.
type TransactionRepository interface {
	Save(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, accountID, id int64) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) (*TransactionPage, error)
	DeleteByID(ctx context.Context, accountID, id int64) error
}

// TransactionInput carries the data for creating or replacing a transaction.
type TransactionInput struct {
	AccountID   int64
	Amount      float64
	Kind        domain.EntryKind
	Date        time.Time
	Description string
	CategoryID  *int64
}

// TransactionService defines transaction use cases, scoped to the acting
// account.
type TransactionService interface {
	Create(ctx context.Context, in TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, accountID, id int64) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) (*TransactionPage, error)
	Update(ctx context.Context, id int64, in TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, accountID, id int64) error
}
