package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
	"github.com/fintrack/finance-tracker/internal/core/validation"
)

const (
	accountsCollection = "accounts"
	accountsSequence   = "accounts"
)

// AccountRepository is the MongoDB implementation of ports.AccountRepository.
//
// Usernames are stored twice: the display form as typed, plus a lower-cased
// username_lower carrying the unique index, which makes uniqueness and
// lookups case-insensitive. Emails carry their own unique index.
type AccountRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db, coll: db.Collection(accountsCollection)}
}

type accountDoc struct {
	ID            int64       `bson:"_id"`
	Username      string      `bson:"username"`
	UsernameLower string      `bson:"username_lower"`
	Email         string      `bson:"email"`
	PasswordHash  string      `bson:"password_hash"`
	Role          domain.Role `bson:"role"`
	CreatedAt     int64       `bson:"created_at"`
	UpdatedAt     int64       `bson:"updated_at"`
}

func toDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:            a.ID,
		Username:      a.Username,
		UsernameLower: validation.NormalizeUsername(a.Username),
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Role:          a.Role,
		CreatedAt:     a.CreatedAt.Unix(),
		UpdatedAt:     a.UpdatedAt.Unix(),
	}
}

func fromDoc(d accountDoc) *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// Save inserts when a.ID is zero, otherwise replaces the stored document.
// Unique index violations are mapped to the matching duplicate error so the
// service can treat a lost race exactly like a failed pre-check.
func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *a
	if stored.ID == 0 {
		id, err := nextID(ctx, r.db, accountsSequence)
		if err != nil {
			return nil, err
		}
		stored.ID = id
		if _, err := r.coll.InsertOne(ctx, toDoc(&stored)); err != nil {
			return nil, mapWriteErr(err, "insert account")
		}
		return &stored, nil
	}

	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": stored.ID}, toDoc(&stored)); err != nil {
		return nil, mapWriteErr(err, "update account")
	}
	return &stored, nil
}

func mapWriteErr(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "username_lower"):
			return domain.ErrUsernameTaken
		case strings.Contains(msg, "email"):
			return domain.ErrEmailTaken
		}
		return domain.ErrConstraintViolation
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return fromDoc(d), nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d accountDoc
	filter := bson.M{"username_lower": validation.NormalizeUsername(username)}
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return fromDoc(d), nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"username_lower": validation.NormalizeUsername(username)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by username: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by email: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find by role: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Account
	for cur.Next(ctx) {
		var d accountDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, *fromDoc(d))
	}
	return out, cur.Err()
}

func (r *AccountRepository) FindByUsernameContaining(ctx context.Context, substring string, page ports.PageRequest) (*ports.AccountPage, error) {
	filter := bson.M{}
	if substring != "" {
		filter["username_lower"] = bson.M{"$regex": regexEscape(strings.ToLower(substring))}
	}
	return r.findPage(ctx, filter, page)
}

func (r *AccountRepository) FindAll(ctx context.Context, page ports.PageRequest) (*ports.AccountPage, error) {
	return r.findPage(ctx, bson.M{}, page)
}

func (r *AccountRepository) findPage(ctx context.Context, filter bson.M, page ports.PageRequest) (*ports.AccountPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page.Page - 1) * page.Limit)).
		SetLimit(int64(page.Limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.Account
	for cur.Next(ctx) {
		var d accountDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		items = append(items, *fromDoc(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return &ports.AccountPage{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteByID is idempotent: a zero delete count is not an error.
func (r *AccountRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes backing the uniqueness invariants.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_lower", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_lower"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email"),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// regexEscape neutralises regex metacharacters so the substring filter stays
// a literal match.
func regexEscape(s string) string {
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
