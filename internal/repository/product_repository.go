package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commercekit/storefront/internal/domain"
)

// ProductRepository stores the catalog in a Mongo collection. Stock
// decrements run atomically by default; legacy mode keeps the unguarded
// read-then-save sequence.
type ProductRepository struct {
	collection         *mongo.Collection
	legacyStockUpdates bool
}

func NewProductRepository(db *mongo.Database, legacyStockUpdates bool) *ProductRepository {
	return &ProductRepository{
		collection:         db.Collection("products"),
		legacyStockUpdates: legacyStockUpdates,
	}
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category"`
	Count       int                `bson:"count"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		Category:    d.Category,
		Count:       d.Count,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Category:    product.Category,
		Count:       product.Count,
		OwnerID:     product.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("product insert error: %w", err)
	}

	product.ID = doc.ID.Hex()
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// FindByNameCategory looks a product up by exact name and category, the key
// order placement allocates against.
func (r *ProductRepository) FindByNameCategory(ctx context.Context, name, category string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"name": name, "category": category})
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var doc productDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("product lookup error: %w", err)
	}
	return doc.toDomain(), nil
}

// SearchByName matches products whose name contains the fragment,
// case-insensitively.
func (r *ProductRepository) SearchByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	filter := bson.M{"name": primitive.Regex{
		Pattern: regexp.QuoteMeta(fragment),
		Options: "i",
	}}
	return r.findAll(ctx, filter)
}

// FindByCategory matches the category exactly, ignoring case.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	filter := bson.M{"category": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(category) + "$",
		Options: "i",
	}}
	return r.findAll(ctx, filter)
}

func (r *ProductRepository) findAll(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("product query error: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("product decode error: %w", err)
		}
		products = append(products, *doc.toDomain())
	}
	return products, cursor.Err()
}

func (r *ProductRepository) IncrementCount(ctx context.Context, id string, n int) (*domain.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	update := bson.M{
		"$inc": bson.M{"count": n},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, update)
}

// DecrementCount reduces stock by n. In atomic mode the update is guarded by
// count >= n, so a concurrent allocation cannot drive stock negative. Legacy
// mode reads, subtracts and saves without any guard.
func (r *ProductRepository) DecrementCount(ctx context.Context, id string, n int) (*domain.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	if r.legacyStockUpdates {
		return r.legacyDecrement(ctx, objectID, n)
	}

	filter := bson.M{"_id": objectID, "count": bson.M{"$gte": n}}
	update := bson.M{
		"$inc": bson.M{"count": -n},
		"$set": bson.M{"updated_at": time.Now()},
	}

	product, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, domain.ErrNotFound) {
		// Distinguish a vanished product from insufficient stock.
		if _, lookupErr := r.findOne(ctx, bson.M{"_id": objectID}); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, fmt.Errorf("stock changed concurrently for product %s: %w", id, domain.ErrConflict)
	}
	return product, err
}

func (r *ProductRepository) legacyDecrement(ctx context.Context, id primitive.ObjectID, n int) (*domain.Product, error) {
	product, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	product.Count -= n
	update := bson.M{"$set": bson.M{"count": product.Count, "updated_at": time.Now()}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return nil, fmt.Errorf("product stock update error: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	set := bson.M{"updated_at": time.Now()}
	for key, value := range fields {
		set[key] = value
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	var doc productDoc
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("product delete error: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("product update error: %w", err)
	}
	return doc.toDomain(), nil
}
