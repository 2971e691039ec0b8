package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planet-beauty/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAddAttempts bounds the retry when two first-adds race to create the same cart document.
const maxAddAttempts = 3

// mongoCartRepository stores each cart as one document keyed by a unique user_id.
type mongoCartRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoCartRepository creates a MongoDB-backed cart repository.
func NewMongoCartRepository(db *mongo.Database, logger zerolog.Logger) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
		logger:     logger.With().Str("repository", "mongo_cart").Logger(),
	}
}

// CreateCartIndexes installs the unique user_id index AddItem relies on.
// Carts never expire; they live until the owner clears them or checks out.
func CreateCartIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection("carts").Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (m *mongoCartRepository) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrCartNotFound
		}
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return &cart, nil
}

func (m *mongoCartRepository) EnsureCart(ctx context.Context, userID string) (*model.Cart, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"items":      bson.A{},
			"created_at": now,
			"updated_at": now,
		},
	}

	_, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return m.GetCart(ctx, userID)
}

// AddItem increments the matching element in place. When no element matches it pushes a new
// one, guarded so the push only happens if the product is still absent. A lost race on cart
// creation surfaces as a duplicate user_id and is retried.
func (m *mongoCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	for attempt := 1; attempt <= maxAddAttempts; attempt++ {
		now := time.Now().UTC()

		inc := bson.M{
			"$inc": bson.M{"items.$.quantity": quantity},
			"$set": bson.M{"updated_at": now},
		}
		res, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userID, "items.product_id": productID}, inc)
		if err != nil {
			m.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to increment cart item")
			return fmt.Errorf("failed to increment cart item: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		push := bson.M{
			"$push":        bson.M{"items": model.CartItem{ProductID: productID, Quantity: quantity}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		}
		filter := bson.M{"user_id": userID, "items.product_id": bson.M{"$ne": productID}}
		res, err = m.collection.UpdateOne(ctx, filter, push, options.Update().SetUpsert(true))
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				m.logger.Debug().Int("attempt", attempt).Str("user_id", userID).Msg("concurrent cart add, retrying")
				continue
			}
			m.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to push cart item")
			return fmt.Errorf("failed to push cart item: %w", err)
		}
		if res.MatchedCount > 0 || res.UpsertedCount > 0 {
			return nil
		}
	}

	return fmt.Errorf("failed to add cart item after %d attempts", maxAddAttempts)
}

func (m *mongoCartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	update := bson.M{
		"$set": bson.M{
			"items.$.quantity": quantity,
			"updated_at":       time.Now().UTC(),
		},
	}

	res, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userID, "items.product_id": productID}, update)
	if err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to update item quantity")
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := m.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to check cart: %w", err)
	}
	if n == 0 {
		return model.ErrCartNotFound
	}
	return model.ErrItemNotFound
}

func (m *mongoCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove item")
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrCartNotFound
	}
	return nil
}

func (m *mongoCartRepository) Clear(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"items": bson.A{}, "updated_at": time.Now().UTC()}}

	if _, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update); err != nil {
		m.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
