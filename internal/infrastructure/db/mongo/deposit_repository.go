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

const collectionDeposits = "deposits"

type DepositRepository struct {
	col *mongo.Collection
}

func NewDepositRepository(db *mongo.Database) *DepositRepository {
	return &DepositRepository{col: db.Collection(collectionDeposits)}
}

func (r *DepositRepository) List(ctx context.Context) ([]domain.Deposit, error) {
	return r.find(ctx, bson.M{})
}

func (r *DepositRepository) ListByClientID(ctx context.Context, clientID string) ([]domain.Deposit, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

func (r *DepositRepository) Search(ctx context.Context, query string) ([]domain.Deposit, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"client_id": pattern},
		bson.M{"operation_code": pattern},
	}})
}

func (r *DepositRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Deposit, error) {
	return r.find(ctx, bson.M{"date": bson.M{"$gte": start, "$lte": end}})
}

func (r *DepositRepository) Insert(ctx context.Context, d *domain.Deposit) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

func (r *DepositRepository) Update(ctx context.Context, d *domain.Deposit) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d); err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	return nil
}

func (r *DepositRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}
	return nil
}

func (r *DepositRepository) find(ctx context.Context, filter bson.M) ([]domain.Deposit, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find deposits: %w", err)
	}
	var deposits []domain.Deposit
	if err := cursor.All(ctx, &deposits); err != nil {
		return nil, fmt.Errorf("decode deposits: %w", err)
	}
	return deposits, nil
}

// EnsureIndexes creates the lookup indexes the service queries rely on.
func (r *DepositRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
