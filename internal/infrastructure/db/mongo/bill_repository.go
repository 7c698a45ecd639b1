package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recibos/billing-system/internal/core/domain"
)

const collectionBills = "bills"

type BillRepository struct {
	col *mongo.Collection
}

func NewBillRepository(db *mongo.Database) *BillRepository {
	return &BillRepository{col: db.Collection(collectionBills)}
}

func (r *BillRepository) List(ctx context.Context) ([]domain.Bill, error) {
	return r.find(ctx, bson.M{})
}

func (r *BillRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.Bill, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

// Search pushes the case-insensitive substring match down to the database.
func (r *BillRepository) Search(ctx context.Context, query string) ([]domain.Bill, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"identifier": pattern},
		bson.M{"client_id": pattern},
	}})
}

func (r *BillRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Bill, error) {
	return r.find(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
}

func (r *BillRepository) Insert(ctx context.Context, b *domain.Bill) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *BillRepository) Update(ctx context.Context, b *domain.Bill) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b); err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return nil
}

func (r *BillRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func (r *BillRepository) find(ctx context.Context, filter bson.M) ([]domain.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find bills: %w", err)
	}
	var bills []domain.Bill
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, fmt.Errorf("decode bills: %w", err)
	}
	return bills, nil
}

// EnsureIndexes creates the lookup indexes the service queries rely on.
func (r *BillRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "identifier", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
