package appconfig

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "bookly/pkg/errors"
	"bookly/pkg/model"
)

const (
	collectionName = "Config"

	// settingsID is the _id of the single configuration document.
	settingsID = "settings"
)

type Repository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, cfg *model.Config) error
	EnsureDefaults(ctx context.Context, defaults *model.Config) error
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection(collectionName),
	}
}

func (r *mongoRepository) Get(ctx context.Context) (*model.Config, error) {
	var cfg model.Config
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, apperrors.Internal("Failed to read configuration", err)
	}
	return &cfg, nil
}

// Save replaces the settings document wholesale, creating it if absent.
func (r *mongoRepository) Save(ctx context.Context, cfg *model.Config) error {
	cfg.ID = settingsID
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settingsID}, cfg, opts)
	if err != nil {
		return apperrors.Internal("Failed to save configuration", err)
	}
	return nil
}

// EnsureDefaults creates the settings document with the given defaults if it
// does not exist yet. An existing document is left untouched.
func (r *mongoRepository) EnsureDefaults(ctx context.Context, defaults *model.Config) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"slot_duration_min": defaults.SlotDurationMin,
			"start_time":        defaults.StartTime,
			"end_time":          defaults.EndTime,
			"blocked_slots":     defaults.BlockedSlots,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": settingsID}, update, opts)
	if err != nil {
		return apperrors.Internal("Failed to initialize configuration", err)
	}
	return nil
}
