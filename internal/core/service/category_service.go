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

const categoryNameMaxLen = 60

// CategoryService implements pass-through category persistence, scoped to the
// acting account.
type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

func (s *CategoryService) Create(ctx context.Context, in ports.CreateCategoryInput) (*domain.Category, error) {
	if err := validation.ID(in.AccountID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > categoryNameMaxLen {
		return nil, domain.ErrInvalidCategory
	}
	if !in.Kind.Valid() {
		return nil, domain.ErrInvalidTransaction
	}

	created, err := s.repo.Save(ctx, &domain.Category{
		AccountID: in.AccountID,
		Name:      name,
		Kind:      in.Kind,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConstraintViolation) {
			return nil, domain.ErrCategoryTaken
		}
		s.log.Error().Err(err).Msg("category insert failed")
		return nil, domain.ErrStorage
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context, accountID int64) ([]domain.Category, error) {
	if err := validation.ID(accountID); err != nil {
		return nil, err
	}
	categories, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		s.log.Error().Err(err).Msg("category list failed")
		return nil, domain.ErrStorage
	}
	return categories, nil
}

func (s *CategoryService) Delete(ctx context.Context, accountID, id int64) error {
	if err := validation.ID(accountID); err != nil {
		return err
	}
	if err := validation.ID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, accountID, id); err != nil {
		s.log.Error().Err(err).Msg("category delete failed")
		return domain.ErrStorage
	}
	return nil
}
