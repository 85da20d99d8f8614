package profile

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"nutribot/internal/core"
)

// mongoStore implements core.ProfileStore over a MongoDB collection.
type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDB creates a MongoDB-backed profile store.
func NewMongoDB(ctx context.Context, cfg MongoDBConfig) (core.ProfileStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("MongoDB URL is required")
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = "nutribot"
	}

	clientOpts := options.Client().ApplyURI(cfg.URL)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &mongoStore{
		client:     client,
		collection: client.Database(dbName).Collection("profiles"),
	}, nil
}

func (s *mongoStore) Get(ctx context.Context, userID string) (*core.UserProfile, error) {
	var profile core.UserProfile
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

func (s *mongoStore) Put(ctx context.Context, profile *core.UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, opts); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (s *mongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
