package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
	"github.com/fintrack/finance-tracker/internal/core/validation"
)

const transactionDescriptionMaxLen = 200

// TransactionService implements pass-through transaction persistence, scoped
// to the acting account. Referenced categories must belong to the same
// account.
type TransactionService struct {
	repo       ports.TransactionRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewTransactionService(repo ports.TransactionRepository, categories ports.CategoryRepository, log zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, categories: categories, log: log}
}

func (s *TransactionService) Create(ctx context.Context, in ports.TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	created, err := s.repo.Save(ctx, &domain.Transaction{
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Date:        date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("transaction insert failed")
		return nil, domain.ErrStorage
	}
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, accountID, id int64) (*domain.Transaction, error) {
	if err := validation.ID(accountID); err != nil {
		return nil, err
	}
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		s.log.Error().Err(err).Msg("transaction lookup failed")
		return nil, domain.ErrStorage
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, filter ports.TransactionFilter) (*ports.TransactionPage, error) {
	if err := validation.ID(filter.AccountID); err != nil {
		return nil, err
	}
	page := normalizePage(ports.PageRequest{Page: filter.Page, Limit: filter.Limit})
	filter.Page = page.Page
	filter.Limit = page.Limit

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("transaction list failed")
		return nil, domain.ErrStorage
	}
	return result, nil
}

func (s *TransactionService) Update(ctx context.Context, id int64, in ports.TransactionInput) (*domain.Transaction, error) {
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, in.AccountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		s.log.Error().Err(err).Msg("transaction lookup failed")
		return nil, domain.ErrStorage
	}

	updated := *current
	updated.Amount = in.Amount
	updated.Kind = in.Kind
	if !in.Date.IsZero() {
		updated.Date = in.Date
	}
	updated.Description = in.Description
	updated.CategoryID = in.CategoryID
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Save(ctx, &updated)
	if err != nil {
		s.log.Error().Err(err).Msg("transaction update failed")
		return nil, domain.ErrStorage
	}
	return saved, nil
}

func (s *TransactionService) Delete(ctx context.Context, accountID, id int64) error {
	if err := validation.ID(accountID); err != nil {
		return err
	}
	if err := validation.ID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, accountID, id); err != nil {
		s.log.Error().Err(err).Msg("transaction delete failed")
		return domain.ErrStorage
	}
	return nil
}

func (s *TransactionService) validate(ctx context.Context, in ports.TransactionInput) error {
	if err := validation.ID(in.AccountID); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return domain.ErrInvalidTransaction
	}
	if len(in.Description) > transactionDescriptionMaxLen {
		return domain.ErrInvalidTransaction
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, in.AccountID, *in.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return domain.ErrCategoryNotFound
			}
			s.log.Error().Err(err).Msg("category lookup failed")
			return domain.ErrStorage
		}
	}
	return nil
}
