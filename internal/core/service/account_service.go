package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
	"github.com/fintrack/finance-tracker/internal/core/validation"
)

// AccountService implements account management: creation, lookups, partial
// updates, role changes and existence checks. Uniqueness pre-checks here are
// best-effort early rejection; the store's unique indexes are the final
// arbiter under concurrent creation.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, log: log}
}

// Create validates all fields, rejects duplicates, hashes the password and
// persists a new account. Role defaults to USER when empty. Nothing is
// written on any failure.
func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*ports.AccountView, error) {
	if err := validation.Username(in.Username); err != nil {
		return nil, err
	}
	if err := validation.Email(in.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, s.storage("check username", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}
	taken, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.storage("check email", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Save(ctx, &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The pre-check can lose a race; the unique index still rejects the
		// conflicting insert and it maps to the same duplicate kind.
		if dup := asDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, s.storage("insert account", err)
	}

	s.log.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account created")
	return toView(created), nil
}

// GetByID fetches one account by surrogate id.
func (s *AccountService) GetByID(ctx context.Context, id int64) (*ports.AccountView, error) {
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.storage("find account", err)
	}
	return toView(a), nil
}

// GetByUsername fetches one account by username, case-insensitively.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*ports.AccountView, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.storage("find account by username", err)
	}
	return toView(a), nil
}

// ListByRole returns all accounts holding role. An empty result is not an
// error.
func (s *AccountService) ListByRole(ctx context.Context, role domain.Role) ([]ports.AccountView, error) {
	if role == "" {
		return nil, domain.ErrNilParameter
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	accounts, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, s.storage("list by role", err)
	}
	views := make([]ports.AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *toView(&accounts[i]))
	}
	return views, nil
}

// ListByUsernameContaining returns a page of accounts whose username contains
// substring. An empty substring matches all accounts.
func (s *AccountService) ListByUsernameContaining(ctx context.Context, substring string, page ports.PageRequest) (*ports.AccountViewPage, error) {
	p, err := s.repo.FindByUsernameContaining(ctx, substring, normalizePage(page))
	if err != nil {
		return nil, s.storage("search accounts", err)
	}
	return toViewPage(p), nil
}

// List returns a page over all accounts.
func (s *AccountService) List(ctx context.Context, page ports.PageRequest) (*ports.AccountViewPage, error) {
	p, err := s.repo.FindAll(ctx, normalizePage(page))
	if err != nil {
		return nil, s.storage("list accounts", err)
	}
	return toViewPage(p), nil
}

// Update applies a partial update: only fields present in the patch change,
// all others keep their stored values. A new record is constructed rather
// than mutating the fetched one.
func (s *AccountService) Update(ctx context.Context, id int64, patch ports.AccountPatch) (*ports.AccountView, error) {
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	if patch.Username != nil {
		if err := validation.Username(*patch.Username); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if err := validation.Email(*patch.Email); err != nil {
			return nil, err
		}
		// Email uniqueness is rejected before the target is even fetched.
		taken, err := s.repo.ExistsByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, s.storage("check email", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.storage("find account", err)
	}

	updated := *current
	if patch.Username != nil {
		updated.Username = *patch.Username
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Save(ctx, &updated)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, s.storage("update account", err)
	}
	s.log.Info().Int64("account_id", saved.ID).Msg("account updated")
	return toView(saved), nil
}

// Delete removes the account with the given id. Deleting an absent id is not
// an error.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := validation.ID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.storage("delete account", err)
	}
	return nil
}

// ChangeRole sets the account's role. When the stored role already equals the
// requested one the account is returned unchanged without a write.
func (s *AccountService) ChangeRole(ctx context.Context, id int64, role domain.Role) (*ports.AccountView, error) {
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	if role == "" {
		return nil, domain.ErrNilParameter
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, s.storage("find account", err)
	}
	if current.Role == role {
		return toView(current), nil
	}

	updated := *current
	updated.Role = role
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Save(ctx, &updated)
	if err != nil {
		return nil, s.storage("change role", err)
	}
	s.log.Info().Int64("account_id", saved.ID).Str("role", string(role)).Msg("account role changed")
	return toView(saved), nil
}

// UsernameExists reports whether any account holds username.
func (s *AccountService) UsernameExists(ctx context.Context, username string) (bool, error) {
	if isBlank(username) {
		return false, domain.ErrNilParameter
	}
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, s.storage("check username", err)
	}
	return exists, nil
}

// EmailExists reports whether any account holds email.
func (s *AccountService) EmailExists(ctx context.Context, email string) (bool, error) {
	if isBlank(email) {
		return false, domain.ErrNilParameter
	}
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, s.storage("check email", err)
	}
	return exists, nil
}

// storage logs the real cause and returns the opaque storage sentinel so
// store internals never reach the boundary.
func (s *AccountService) storage(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("account store failure")
	return domain.ErrStorage
}

// asDuplicate maps store-level constraint violations to the same duplicate
// kinds as the early existence checks.
func asDuplicate(err error) error {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return domain.ErrUsernameTaken
	case errors.Is(err, domain.ErrEmailTaken):
		return domain.ErrEmailTaken
	case errors.Is(err, domain.ErrConstraintViolation):
		return domain.ErrUsernameTaken
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func toView(a *domain.Account) *ports.AccountView {
	return &ports.AccountView{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toViewPage(p *ports.AccountPage) *ports.AccountViewPage {
	items := make([]ports.AccountView, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, *toView(&p.Items[i]))
	}
	return &ports.AccountViewPage{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage clamps paging inputs: page is 1-based, limit capped at 100.
func normalizePage(p ports.PageRequest) ports.PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}
