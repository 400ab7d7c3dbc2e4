package persistence

import (
	"context"
	"errors"

	"review-enhancer/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const settingsCollection = "mall_settings"

// SettingsRepositoryMongo keeps one document per mall keyed by mall id.
type SettingsRepositoryMongo struct {
	collection *mongo.Collection
}

func NewSettingsRepositoryMongo(client *mongo.Client, database string) *SettingsRepositoryMongo {
	return &SettingsRepositoryMongo{collection: client.Database(database).Collection(settingsCollection)}
}

func (r *SettingsRepositoryMongo) GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error) {
	var s model.MallSettings
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: mallID}}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepositoryMongo) SaveSettings(ctx context.Context, s *model.MallSettings) error {
	_, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: s.MallID}}, s, options.Replace().SetUpsert(true))
	return err
}

func (r *SettingsRepositoryMongo) DeleteSettings(ctx context.Context, mallID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: mallID}})
	return err
}
