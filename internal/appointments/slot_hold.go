package appointments

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "bookly/pkg/errors"
)

const (
	holdCollectionName = "Slot_holds"

	// holdTTL bounds how long a crashed request can keep a slot fenced.
	holdTTL = 30 * time.Second
)

// slotHold is a short-lived advisory lock on a (date, time) pair. It fences
// concurrent booking attempts before the transactional re-check, so most
// losers fail fast without opening a transaction.
type slotHold struct {
	ID        string    `bson:"_id"`
	Holder    string    `bson:"holder"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type HoldRepository interface {
	Acquire(ctx context.Context, date, clock, holder string) error
	Release(ctx context.Context, date, clock, holder string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoHoldRepository struct {
	collection *mongo.Collection
}

func NewMongoHoldRepository(db *mongo.Database) HoldRepository {
	return &mongoHoldRepository{
		collection: db.Collection(holdCollectionName),
	}
}

func (r *mongoHoldRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return apperrors.Internal("Failed to create slot hold index", err)
	}
	return nil
}

func (r *mongoHoldRepository) Acquire(ctx context.Context, date, clock, holder string) error {
	hold := slotHold{
		ID:        holdID(date, clock),
		Holder:    holder,
		ExpiresAt: time.Now().Add(holdTTL),
	}

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrHoldHeld
		}
		return apperrors.Internal("Failed to acquire slot hold", err)
	}
	return nil
}

func (r *mongoHoldRepository) Release(ctx context.Context, date, clock, holder string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":    holdID(date, clock),
		"holder": holder,
	})
	if err != nil {
		return apperrors.Internal("Failed to release slot hold", err)
	}
	return nil
}

func holdID(date, clock string) string {
	return fmt.Sprintf("%s_%s", date, clock)
}
