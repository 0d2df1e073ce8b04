package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Items     []models.CartItem  `bson:"items"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *mongoCart) toModel() *models.Cart {
	items := d.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{
		UserID:    d.UserID,
		Items:     items,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoCartRepository stores carts in the "carts" collection. It relies on
// the unique userId index created by database.EnsureIndexes.
type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"userId":    userID,
		"items":     []models.CartItem{},
		"version":   int64(1),
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc mongoCart
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race; the winner's cart is there now.
		return r.Find(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoCartRepository) Find(ctx context.Context, userID string) (*models.Cart, error) {
	var doc mongoCart
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}

	if cart.Version == 0 {
		createdAt := cart.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := r.collection.InsertOne(ctx, mongoCart{
			UserID:    cart.UserID,
			Items:     items,
			Version:   1,
			CreatedAt: createdAt,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		if err != nil {
			return fmt.Errorf("insert cart: %w", err)
		}
		cart.CreatedAt = createdAt
		cart.UpdatedAt = now
		cart.Version = 1
		return nil
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"userId": cart.UserID, "version": cart.Version},
		bson.M{"$set": bson.M{
			"items":     items,
			"version":   cart.Version + 1,
			"updatedAt": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}

	cart.Version++
	cart.UpdatedAt = now
	return nil
}
