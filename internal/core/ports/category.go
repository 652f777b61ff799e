package ports

import (
	"context"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

// CategoryRepository persists user-defined categories. Name uniqueness is
// per account, case-insensitive, backed by a unique index.
type CategoryRepository interface {
	Save(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, accountID, id int64) (*domain.Category, error)
	FindByAccount(ctx context.Context, accountID int64) ([]domain.Category, error)
	DeleteByID(ctx context.Context, accountID, id int64) error
}

// CreateCategoryInput carries the data for category creation.
type CreateCategoryInput struct {
	AccountID int64
	Name      string
	Kind      domain.EntryKind
}

// CategoryService defines category use cases. All operations are scoped to
// the acting account.
type CategoryService interface {
	Create(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	List(ctx context.Context, accountID int64) ([]domain.Category, error)
	Delete(ctx context.Context, accountID, id int64) error
}
