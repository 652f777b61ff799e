package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrack/finance-tracker/internal/core/domain"
	"github.com/fintrack/finance-tracker/internal/core/ports"
)

const (
	transactionsCollection = "transactions"
	transactionsSequence   = "transactions"
)

// TransactionRepository is the MongoDB implementation of
// ports.TransactionRepository. All queries are scoped by account_id.
type TransactionRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{db: db, coll: db.Collection(transactionsCollection)}
}

type transactionDoc struct {
	ID          int64            `bson:"_id"`
	AccountID   int64            `bson:"account_id"`
	Amount      float64          `bson:"amount"`
	Kind        domain.EntryKind `bson:"kind"`
	Date        time.Time        `bson:"date"`
	Description string           `bson:"description,omitempty"`
	CategoryID  *int64           `bson:"category_id,omitempty"`
	CreatedAt   int64            `bson:"created_at"`
	UpdatedAt   int64            `bson:"updated_at"`
}

func toTransactionDoc(t *domain.Transaction) transactionDoc {
	return transactionDoc{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Date:        t.Date.UTC(),
		Description: t.Description,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt.Unix(),
		UpdatedAt:   t.UpdatedAt.Unix(),
	}
}

func fromTransactionDoc(d transactionDoc) *domain.Transaction {
	return &domain.Transaction{
		ID:          d.ID,
		AccountID:   d.AccountID,
		Amount:      d.Amount,
		Kind:        d.Kind,
		Date:        d.Date.UTC(),
		Description: d.Description,
		CategoryID:  d.CategoryID,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *TransactionRepository) Save(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *t
	if stored.ID == 0 {
		id, err := nextID(ctx, r.db, transactionsSequence)
		if err != nil {
			return nil, err
		}
		stored.ID = id
		if _, err := r.coll.InsertOne(ctx, toTransactionDoc(&stored)); err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		return &stored, nil
	}

	filter := bson.M{"_id": stored.ID, "account_id": stored.AccountID}
	if _, err := r.coll.ReplaceOne(ctx, filter, toTransactionDoc(&stored)); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return &stored, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, accountID, id int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d transactionDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "account_id": accountID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return fromTransactionDoc(d), nil
}

func (r *TransactionRepository) List(ctx context.Context, filter ports.TransactionFilter) (*ports.TransactionPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"account_id": filter.AccountID}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From.UTC()
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To.UTC()
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.Transaction
	for cur.Next(ctx) {
		var d transactionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		items = append(items, *fromTransactionDoc(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return &ports.TransactionPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, accountID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "account_id": accountID}); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// EnsureIndexes creates the listing indexes.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "category_id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
