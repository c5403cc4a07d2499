package repository

import (
	"context"
	"errors"
	"fmt"

	"herovault/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("player not found")
	ErrDuplicate       = errors.New("player already exists")
	ErrVersionConflict = errors.New("player version conflict")
)

// PlayerRepo stores one document per normalized email.
// Get returns (nil, nil) when the document does not exist.
type PlayerRepo interface {
	Get(ctx context.Context, key string) (*model.PlayerState, error)
	Insert(ctx context.Context, player *model.PlayerState) error
	// Replace overwrites the document only if its stored version equals expected
	Replace(ctx context.Context, player *model.PlayerState, expected int64) error
	Delete(ctx context.Context, key string) error
}

type playerRepo struct {
	collection *mongo.Collection
}

// NewPlayerRepo creates a MongoDB-backed player repository
func NewPlayerRepo(db *mongo.Database) PlayerRepo {
	return &playerRepo{
		collection: db.Collection("players"),
	}
}

func (r *playerRepo) Get(ctx context.Context, key string) (*model.PlayerState, error) {
	var player model.PlayerState
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&player)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Player not found
		}
		return nil, fmt.Errorf("player get: %w", err)
	}
	return &player, nil
}

func (r *playerRepo) Insert(ctx context.Context, player *model.PlayerState) error {
	// _id is the normalized email, so a second insert for the same key fails
	if _, err := r.collection.InsertOne(ctx, player); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("player insert: %w", err)
	}
	return nil
}

func (r *playerRepo) Replace(ctx context.Context, player *model.PlayerState, expected int64) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": player.Key, "version": expected}, player)
	if err != nil {
		return fmt.Errorf("player replace: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": player.Key})
	if err != nil {
		return fmt.Errorf("player replace: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func (r *playerRepo) Delete(ctx context.Context, key string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("player delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
