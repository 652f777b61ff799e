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
)

const (
	categoriesCollection = "categories"
	categoriesSequence   = "categories"
)

// CategoryRepository is the MongoDB implementation of ports.CategoryRepository.
// A compound unique index on (account_id, name_lower) enforces per-account
// name uniqueness.
type CategoryRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{db: db, coll: db.Collection(categoriesCollection)}
}

type categoryDoc struct {
	ID        int64            `bson:"_id"`
	AccountID int64            `bson:"account_id"`
	Name      string           `bson:"name"`
	NameLower string           `bson:"name_lower"`
	Kind      domain.EntryKind `bson:"kind"`
	CreatedAt int64            `bson:"created_at"`
}

func fromCategoryDoc(d categoryDoc) *domain.Category {
	return &domain.Category{
		ID:        d.ID,
		AccountID: d.AccountID,
		Name:      d.Name,
		Kind:      d.Kind,
		CreatedAt: unixToTime(d.CreatedAt),
	}
}

func (r *CategoryRepository) Save(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *c
	if stored.ID == 0 {
		id, err := nextID(ctx, r.db, categoriesSequence)
		if err != nil {
			return nil, err
		}
		stored.ID = id
	}

	doc := categoryDoc{
		ID:        stored.ID,
		AccountID: stored.AccountID,
		Name:      stored.Name,
		NameLower: strings.ToLower(stored.Name),
		Kind:      stored.Kind,
		CreatedAt: stored.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrConstraintViolation
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &stored, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, accountID, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d categoryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "account_id": accountID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return fromCategoryDoc(d), nil
}

func (r *CategoryRepository) FindByAccount(ctx context.Context, accountID int64) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"account_id": accountID}, options.Find().SetSort(bson.D{{Key: "name_lower", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Category
	for cur.Next(ctx) {
		var d categoryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		out = append(out, *fromCategoryDoc(d))
	}
	return out, cur.Err()
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, accountID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "account_id": accountID}); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// EnsureIndexes creates the per-account unique name index.
func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "name_lower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
