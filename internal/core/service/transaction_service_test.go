package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

type stubCategoryRepo struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *stubCategoryRepo) Save(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for id, existing := range r.categories {
		if id != c.ID && existing.AccountID == c.AccountID && strings.EqualFold(existing.Name, c.Name) {
			return nil, domain.ErrConstraintViolation
		}
	}
	copy := *c
	if copy.ID == 0 {
		r.nextID++
		copy.ID = r.nextID
	}
	r.categories[copy.ID] = &copy
	stored := copy
	return &stored, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, accountID, id int64) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.AccountID != accountID {
		return nil, domain.ErrCategoryNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *stubCategoryRepo) FindByAccount(_ context.Context, accountID int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		if c.AccountID == accountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) DeleteByID(_ context.Context, accountID, id int64) error {
	if c, ok := r.categories[id]; ok && c.AccountID == accountID {
		delete(r.categories, id)
	}
	return nil
}

type stubTransactionRepo struct {
	transactions map[int64]*domain.Transaction
	nextID       int64
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{transactions: make(map[int64]*domain.Transaction)}
}

func (r *stubTransactionRepo) Save(_ context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	copy := *t
	if copy.ID == 0 {
		r.nextID++
		copy.ID = r.nextID
	}
	r.transactions[copy.ID] = &copy
	stored := copy
	return &stored, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, accountID, id int64) (*domain.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || t.AccountID != accountID {
		return nil, domain.ErrTransactionNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *stubTransactionRepo) List(_ context.Context, filter ports.TransactionFilter) (*ports.TransactionPage, error) {
	var items []domain.Transaction
	for _, t := range r.transactions {
		if t.AccountID != filter.AccountID {
			continue
		}
		if !filter.From.IsZero() && t.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.Date.After(filter.To) {
			continue
		}
		items = append(items, *t)
	}
	return &ports.TransactionPage{Items: items, Total: int64(len(items)), Page: filter.Page, Limit: filter.Limit, TotalPages: 1}, nil
}

func (r *stubTransactionRepo) DeleteByID(_ context.Context, accountID, id int64) error {
	if t, ok := r.transactions[id]; ok && t.AccountID == accountID {
		delete(r.transactions, id)
	}
	return nil
}

func newTestTransactions(txRepo *stubTransactionRepo, catRepo *stubCategoryRepo) *TransactionService {
	return NewTransactionService(txRepo, catRepo, zerolog.Nop())
}

func TestTransactionService_CreateAndGet(t *testing.T) {
	txRepo := newStubTransactionRepo()
	catRepo := newStubCategoryRepo()
	svc := newTestTransactions(txRepo, catRepo)

	created, err := svc.Create(context.Background(), ports.TransactionInput{
		AccountID:   1,
		Amount:      -42.50,
		Kind:        domain.KindExpense,
		Description: "groceries",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected assigned id")
	}
	if created.Date.IsZero() {
		t.Fatalf("expected defaulted date")
	}

	got, err := svc.Get(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Description != "groceries" {
		t.Fatalf("unexpected transaction: %+v", got)
	}

	// Another account must not see it.
	if _, err := svc.Get(context.Background(), 2, created.ID); err != domain.ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionService_Create_Validation(t *testing.T) {
	svc := newTestTransactions(newStubTransactionRepo(), newStubCategoryRepo())

	_, err := svc.Create(context.Background(), ports.TransactionInput{AccountID: 1, Kind: "transfer"})
	if err != domain.ErrInvalidTransaction {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}

	_, err = svc.Create(context.Background(), ports.TransactionInput{
		AccountID:   1,
		Kind:        domain.KindIncome,
		Description: strings.Repeat("x", 201),
	})
	if err != domain.ErrInvalidTransaction {
		t.Fatalf("expected ErrInvalidTransaction for long description, got %v", err)
	}

	_, err = svc.Create(context.Background(), ports.TransactionInput{AccountID: 0, Kind: domain.KindIncome})
	if err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestTransactionService_Create_UnknownCategory(t *testing.T) {
	svc := newTestTransactions(newStubTransactionRepo(), newStubCategoryRepo())

	catID := int64(77)
	_, err := svc.Create(context.Background(), ports.TransactionInput{
		AccountID:  1,
		Kind:       domain.KindExpense,
		CategoryID: &catID,
	})
	if err != domain.ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTransactionService_List_DateRange(t *testing.T) {
	txRepo := newStubTransactionRepo()
	svc := newTestTransactions(txRepo, newStubCategoryRepo())

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), ports.TransactionInput{
			AccountID: 1,
			Amount:    float64(i + 1),
			Kind:      domain.KindIncome,
			Date:      base.AddDate(0, 0, i*10),
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, err := svc.List(context.Background(), ports.TransactionFilter{
		AccountID: 1,
		From:      base.AddDate(0, 0, 5),
		To:        base.AddDate(0, 0, 15),
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 transaction in range, got %d", page.Total)
	}
}

func TestTransactionService_UpdateAndDelete(t *testing.T) {
	txRepo := newStubTransactionRepo()
	svc := newTestTransactions(txRepo, newStubCategoryRepo())

	created, _ := svc.Create(context.Background(), ports.TransactionInput{
		AccountID: 1,
		Amount:    10,
		Kind:      domain.KindIncome,
	})

	updated, err := svc.Update(context.Background(), created.ID, ports.TransactionInput{
		AccountID:   1,
		Amount:      12.5,
		Kind:        domain.KindIncome,
		Description: "salary",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Amount != 12.5 || updated.Description != "salary" {
		t.Fatalf("unexpected transaction: %+v", updated)
	}

	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Idempotent.
	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}
}

func TestCategoryService_CreateListDelete(t *testing.T) {
	catRepo := newStubCategoryRepo()
	svc := NewCategoryService(catRepo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateCategoryInput{
		AccountID: 1,
		Name:      "Groceries",
		Kind:      domain.KindExpense,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Case-insensitive per-account uniqueness.
	if _, err := svc.Create(context.Background(), ports.CreateCategoryInput{
		AccountID: 1,
		Name:      "groceries",
		Kind:      domain.KindExpense,
	}); err != domain.ErrCategoryTaken {
		t.Fatalf("expected ErrCategoryTaken, got %v", err)
	}

	// Same name on another account is fine.
	if _, err := svc.Create(context.Background(), ports.CreateCategoryInput{
		AccountID: 2,
		Name:      "Groceries",
		Kind:      domain.KindExpense,
	}); err != nil {
		t.Fatalf("cross-account create failed: %v", err)
	}

	list, err := svc.List(context.Background(), 1)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 category, got %v / %v", list, err)
	}

	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}

	if _, err := svc.Create(context.Background(), ports.CreateCategoryInput{AccountID: 1, Name: "  ", Kind: domain.KindIncome}); err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
