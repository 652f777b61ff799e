package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

// stubAccountRepo is a map-backed AccountRepository with the same uniqueness
// behaviour as the Mongo implementation: case-insensitive usernames, exact
// emails. saveCalls counts writes so no-op behaviour can be asserted.
type stubAccountRepo struct {
	accounts  map[int64]*domain.Account
	nextID    int64
	saveCalls int
	failWith  error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Save(_ context.Context, a *domain.Account) (*domain.Account, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.saveCalls++
	for id, existing := range r.accounts {
		if id == a.ID {
			continue
		}
		if strings.EqualFold(existing.Username, a.Username) {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneAccount(a)
	if copy.ID == 0 {
		r.nextID++
		copy.ID = r.nextID
	}
	r.accounts[copy.ID] = cloneAccount(copy)
	return copy, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Username, username) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	_, err := r.FindByUsername(context.Background(), username)
	return err == nil, nil
}

func (r *stubAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.failWith != nil {
		return false, r.failWith
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) FindByRole(_ context.Context, role domain.Role) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range r.accounts {
		if a.Role == role {
			out = append(out, *cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) FindByUsernameContaining(_ context.Context, substring string, page ports.PageRequest) (*ports.AccountPage, error) {
	var items []domain.Account
	for _, a := range r.accounts {
		if strings.Contains(strings.ToLower(a.Username), strings.ToLower(substring)) {
			items = append(items, *cloneAccount(a))
		}
	}
	return pageOf(items, page), nil
}

func (r *stubAccountRepo) FindAll(_ context.Context, page ports.PageRequest) (*ports.AccountPage, error) {
	var items []domain.Account
	for _, a := range r.accounts {
		items = append(items, *cloneAccount(a))
	}
	return pageOf(items, page), nil
}

func (r *stubAccountRepo) DeleteByID(_ context.Context, id int64) error {
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.accounts, id)
	return nil
}

func pageOf(items []domain.Account, page ports.PageRequest) *ports.AccountPage {
	total := int64(len(items))
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return &ports.AccountPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit, TotalPages: totalPages}
}

func newTestService(repo *stubAccountRepo) *AccountService {
	return NewAccountService(repo, &fakeHasher{}, zerolog.Nop())
}

// fakeHasher keeps service tests fast; the real bcrypt hasher has its own
// tests.
type fakeHasher struct{}

func (*fakeHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidPassword
	}
	return "hashed:" + password, nil
}

func (*fakeHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

func validInput() ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Username: "testuser",
		Password: "Password123!",
		Email:    "test@example.com",
	}
}

func TestAccountService_Create_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	view, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if view.Username != "testuser" || view.Email != "test@example.com" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", view.Role)
	}
	if view.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", view.ID)
	}

	stored := repo.accounts[view.ID]
	if stored.PasswordHash == "Password123!" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestAccountService_Create_ExplicitRole(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	view, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Username: "admin.user",
		Password: "Password123!",
		Email:    "admin@example.com",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if view.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", view.Role)
	}
}

func TestAccountService_Create_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.CreateAccountInput)
		want   error
	}{
		{"username too short", func(in *ports.CreateAccountInput) { in.Username = "ab" }, domain.ErrInvalidUsername},
		{"username too long", func(in *ports.CreateAccountInput) { in.Username = strings.Repeat("a", 21) }, domain.ErrInvalidUsername},
		{"bad email", func(in *ports.CreateAccountInput) { in.Email = "invalid-email" }, domain.ErrInvalidEmail},
		{"password too short", func(in *ports.CreateAccountInput) { in.Password = "Passw0rd12!" }, domain.ErrInvalidPassword},
		{"bad role", func(in *ports.CreateAccountInput) { in.Role = "SUPERUSER" }, domain.ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubAccountRepo()
			svc := newTestService(repo)
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if repo.saveCalls != 0 {
				t.Fatalf("no write may occur on validation failure")
			}
		})
	}
}

func TestAccountService_Create_BoundaryUsernames(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	for i, username := range []string{"abc", strings.Repeat("z", 20)} {
		in := validInput()
		in.Username = username
		in.Email = []string{"a@a.aa", "b@b.bb"}[i]
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("username %q should be accepted: %v", username, err)
		}
	}
}

func TestAccountService_Create_DuplicateUsername(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Any case variant collides.
	in := validInput()
	in.Username = "TestUser"
	in.Email = "other@example.com"
	if _, err := svc.Create(context.Background(), in); err != domain.ErrUsernameTaken {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected exactly one persisted account, got %d", len(repo.accounts))
	}
}

func TestAccountService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	in := validInput()
	in.Username = "otheruser"
	if _, err := svc.Create(context.Background(), in); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_GetByID(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())

	view, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Username != "testuser" {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := svc.GetByID(context.Background(), 0); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), 9999); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_GetByUsername_CaseInsensitive(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, _ = svc.Create(context.Background(), validInput())

	view, err := svc.GetByUsername(context.Background(), "TESTUSER")
	if err != nil {
		t.Fatalf("get by username failed: %v", err)
	}
	if view.Username != "testuser" {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := svc.GetByUsername(context.Background(), "  "); err != domain.ErrInvalidUsername {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if _, err := svc.GetByUsername(context.Background(), "missinguser"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ListByRole(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, _ = svc.Create(context.Background(), validInput())

	views, err := svc.ListByRole(context.Background(), domain.RoleUser)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 account, got %d", len(views))
	}

	// Empty match is a valid result, not an error.
	views, err = svc.ListByRole(context.Background(), domain.RoleAdmin)
	if err != nil || len(views) != 0 {
		t.Fatalf("expected empty list, got %v / %v", views, err)
	}

	if _, err := svc.ListByRole(context.Background(), ""); err != domain.ErrNilParameter {
		t.Fatalf("expected ErrNilParameter, got %v", err)
	}
}

func TestAccountService_ListByUsernameContaining(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, _ = svc.Create(context.Background(), validInput())
	in := validInput()
	in.Username = "another"
	in.Email = "another@example.com"
	_, _ = svc.Create(context.Background(), in)

	page, err := svc.ListByUsernameContaining(context.Background(), "test", ports.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected one match, got %+v", page)
	}

	// Empty substring matches everything.
	page, err = svc.ListByUsernameContaining(context.Background(), "", ports.PageRequest{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", page.Total)
	}
	if page.Page != 1 || page.Limit != defaultPageLimit {
		t.Fatalf("expected normalized paging, got page=%d limit=%d", page.Page, page.Limit)
	}
}

func TestAccountService_Update_Partial(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())

	email := "new@example.com"
	view, err := svc.Update(context.Background(), created.ID, ports.AccountPatch{Email: &email})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.Email != "new@example.com" {
		t.Fatalf("email not updated: %+v", view)
	}
	if view.Username != "testuser" {
		t.Fatalf("username must be untouched: %+v", view)
	}

	// Re-read confirms persistence of the merge.
	reread, _ := svc.GetByID(context.Background(), created.ID)
	if reread.Username != "testuser" || reread.Email != "new@example.com" {
		t.Fatalf("unexpected persisted state: %+v", reread)
	}
}

func TestAccountService_Update_DuplicateEmailBeforeFetch(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, _ = svc.Create(context.Background(), validInput())

	// Target id does not even exist: the email conflict wins.
	email := "test@example.com"
	if _, err := svc.Update(context.Background(), 9999, ports.AccountPatch{Email: &email}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_Update_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())

	bad := "a"
	if _, err := svc.Update(context.Background(), created.ID, ports.AccountPatch{Username: &bad}); err != domain.ErrInvalidUsername {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if _, err := svc.Update(context.Background(), -1, ports.AccountPatch{}); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestAccountService_Update_NotFound(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	username := "whatever"
	if _, err := svc.Update(context.Background(), 42, ports.AccountPatch{Username: &username}); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Delete_Idempotent(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}
	if err := svc.Delete(context.Background(), 0); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestAccountService_ChangeRole(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())

	view, err := svc.ChangeRole(context.Background(), created.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if view.Role != domain.RoleAdmin {
		t.Fatalf("role not changed: %+v", view)
	}

	if _, err := svc.ChangeRole(context.Background(), created.ID, ""); err != domain.ErrNilParameter {
		t.Fatalf("expected ErrNilParameter, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), 9999, domain.RoleUser); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ChangeRole_NoOp(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())
	writesAfterCreate := repo.saveCalls

	view, err := svc.ChangeRole(context.Background(), created.ID, domain.RoleUser)
	if err != nil {
		t.Fatalf("no-op change role failed: %v", err)
	}
	if view.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", view.Role)
	}
	if repo.saveCalls != writesAfterCreate {
		t.Fatalf("no-op role change must not write, saves went %d -> %d", writesAfterCreate, repo.saveCalls)
	}
}

func TestAccountService_ExistenceChecks(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, _ = svc.Create(context.Background(), validInput())

	exists, err := svc.UsernameExists(context.Background(), "TestUser")
	if err != nil || !exists {
		t.Fatalf("expected username to exist: %v %v", exists, err)
	}
	exists, err = svc.EmailExists(context.Background(), "test@example.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist: %v %v", exists, err)
	}
	exists, err = svc.EmailExists(context.Background(), "free@example.com")
	if err != nil || exists {
		t.Fatalf("expected email to be free: %v %v", exists, err)
	}
	if _, err := svc.UsernameExists(context.Background(), "  "); err != domain.ErrNilParameter {
		t.Fatalf("expected ErrNilParameter, got %v", err)
	}
}

func TestAccountService_StorageFailureWrapped(t *testing.T) {
	repo := newStubAccountRepo()
	repo.failWith = context.DeadlineExceeded
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), validInput()); err != domain.ErrStorage {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), 1); err != domain.ErrStorage {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
