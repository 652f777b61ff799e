package ports

import (
	"context"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

// PageRequest carries 1-based pagination parameters.
type PageRequest struct {
	Page  int
	Limit int
}

// AccountPage is one page of accounts plus totals computed by the store.
type AccountPage struct {
	Items      []domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountRepository defines persistence operations for accounts.
//
// Username lookups and existence checks are case-insensitive; implementations
// normalize the argument before querying and must back the uniqueness
// guarantees with unique indexes so concurrent inserts racing past the
// service-level pre-check are still rejected, surfacing
// domain.ErrConstraintViolation.
type AccountRepository interface {
	// Save inserts when a.ID is zero (assigning the id) or replaces the
	// stored record otherwise. Returns the persisted account.
	Save(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.Account, error)
	FindByUsernameContaining(ctx context.Context, substring string, page PageRequest) (*AccountPage, error)
	FindAll(ctx context.Context, page PageRequest) (*AccountPage, error)
	// DeleteByID is idempotent: deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id int64) error
}
