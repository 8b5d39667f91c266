package appointments

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "bookly/pkg/errors"
	"bookly/pkg/model"
)

const collectionName = "Appointments"

type Repository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	FindByDate(ctx context.Context, date string) ([]*model.Appointment, error)
	FindAll(ctx context.Context) ([]*model.Appointment, error)
	ExistsBookedAt(ctx context.Context, date, clock string) (bool, error)
	Delete(ctx context.Context, id string) (*model.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection(collectionName),
	}
}

// EnsureIndexes creates the unique (date, time) index over booked
// appointments. The partial filter keeps the uniqueness constraint scoped to
// live bookings so a future cancelled status would free the slot.
func (r *mongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.StatusBooked}),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
	})
	if err != nil {
		return apperrors.Internal("Failed to create appointment indexes", err)
	}
	return nil
}

func (r *mongoRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	_, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return apperrors.Internal("Failed to create appointment", err)
	}
	return nil
}

func (r *mongoRepository) FindByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]*model.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRepository) find(ctx context.Context, filter bson.M) ([]*model.Appointment, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Internal("Failed to query appointments", err)
	}
	defer cursor.Close(ctx)

	appointments := []*model.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, apperrors.Internal("Failed to decode appointments", err)
	}
	return appointments, nil
}

// ExistsBookedAt is the authoritative pre-insert check. It is meant to run
// inside the booking transaction so the read and the insert see the same
// snapshot.
func (r *mongoRepository) ExistsBookedAt(ctx context.Context, date, clock string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"date":   date,
		"time":   clock,
		"status": model.StatusBooked,
	})
	if err != nil {
		return false, apperrors.Internal("Failed to check slot availability", err)
	}
	return count > 0, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, apperrors.Internal("Failed to delete appointment", err)
	}
	return &appointment, nil
}
