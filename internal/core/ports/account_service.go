package ports

import (
	"context"
	"time"

	"github.com/fintrack/finance-tracker/internal/core/domain"
)

// CreateAccountInput carries the data for account creation. Role defaults to
// USER when empty.
type CreateAccountInput struct {
	Username string
	Password string
	Email    string
	Role     domain.Role
}

// AccountPatch is a partial update: nil fields mean "leave unchanged".
type AccountPatch struct {
	Username *string
	Email    *string
}

// AccountView is the projection of an account safe to return to callers.
// It never carries the password hash.
type AccountView struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AccountViewPage is one page of projected accounts.
type AccountViewPage struct {
	Items      []AccountView `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// AccountService defines the account management use cases.
type AccountService interface {
	Create(ctx context.Context, in CreateAccountInput) (*AccountView, error)
	GetByID(ctx context.Context, id int64) (*AccountView, error)
	GetByUsername(ctx context.Context, username string) (*AccountView, error)
	ListByRole(ctx context.Context, role domain.Role) ([]AccountView, error)
	ListByUsernameContaining(ctx context.Context, substring string, page PageRequest) (*AccountViewPage, error)
	List(ctx context.Context, page PageRequest) (*AccountViewPage, error)
	Update(ctx context.Context, id int64, patch AccountPatch) (*AccountView, error)
	Delete(ctx context.Context, id int64) error
	ChangeRole(ctx context.Context, id int64, role domain.Role) (*AccountView, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
