package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commercekit/storefront/internal/cache"
	"github.com/commercekit/storefront/internal/domain"
)

type ProductService struct {
	catalog  ProductCatalog
	cache    cache.Cache // nil disables caching
	cacheTTL time.Duration
}

func NewProductService(catalog ProductCatalog, productCache cache.Cache, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		catalog:  catalog,
		cache:    productCache,
		cacheTTL: cacheTTL,
	}
}

type NewProductInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
}

func (in NewProductInput) validate() error {
	if in.Name == "" || in.Category == "" {
		return fmt.Errorf("product name and category are required: %w", domain.ErrInvalidInput)
	}
	if in.Price <= 0 {
		return fmt.Errorf("product price must be positive: %w", domain.ErrInvalidInput)
	}
	return nil
}

// CreateOrIncrement creates a product, or bumps the stock count by one if a
// product with the same name and category already exists. Returns whether a
// new product was created.
func (s *ProductService) CreateOrIncrement(ctx context.Context, ownerID string, input NewProductInput) (*domain.Product, bool, error) {
	if err := input.validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.catalog.FindByNameCategory(ctx, input.Name, input.Category)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("catalog lookup error: %w", err)
	}

	if existing != nil {
		updated, err := s.catalog.IncrementCount(ctx, existing.ID, 1)
		if err != nil {
			return nil, false, err
		}
		s.invalidateCache(ctx)
		return updated, false, nil
	}

	product := &domain.Product{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Count:       1,
		OwnerID:     ownerID,
	}
	if err := s.catalog.Insert(ctx, product); err != nil {
		return nil, false, err
	}

	s.invalidateCache(ctx)
	slog.Info("product created", "product_id", product.ID, "name", product.Name, "category", product.Category)
	return product, true, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.catalog.FindByID(ctx, id)
}

func (s *ProductService) SearchByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	if fragment == "" {
		return nil, fmt.Errorf("search name is required: %w", domain.ErrInvalidInput)
	}

	var products []domain.Product
	if s.cachedList(ctx, "search", fragment, &products) {
		return products, nil
	}

	products, err := s.catalog.SearchByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products named like %q: %w", fragment, domain.ErrNotFound)
	}

	s.storeList(ctx, "search", fragment, products)
	return products, nil
}

// CategoryProduct is the trimmed listing the category endpoint returns.
type CategoryProduct struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	StockAvailability string `json:"stockAvailability"`
}

func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]CategoryProduct, error) {
	if category == "" {
		return nil, fmt.Errorf("category is required: %w", domain.ErrInvalidInput)
	}

	var listing []CategoryProduct
	if s.cachedList(ctx, "category", category, &listing) {
		return listing, nil
	}

	products, err := s.catalog.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in category %q: %w", category, domain.ErrNotFound)
	}

	listing = make([]CategoryProduct, len(products))
	for i, product := range products {
		availability := "Out of stock"
		if product.InStock() {
			availability = "Available"
		}
		listing[i] = CategoryProduct{
			Name:              product.Name,
			Description:       product.Description,
			StockAvailability: availability,
		}
	}

	s.storeList(ctx, "category", category, listing)
	return listing, nil
}

var allowedProductFields = map[string]bool{
	"name":        true,
	"price":       true,
	"description": true,
	"category":    true,
	"count":       true,
}

// Update applies an allow-listed field patch. Only the product's owner may
// update it.
func (s *ProductService) Update(ctx context.Context, id, actorID string, fields map[string]interface{}) (*domain.Product, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}
	for field := range fields {
		if !allowedProductFields[field] {
			return nil, fmt.Errorf("field %q cannot be updated: %w", field, domain.ErrInvalidInput)
		}
	}

	if err := s.checkOwnership(ctx, id, actorID); err != nil {
		return nil, err
	}

	updated, err := s.catalog.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return updated, nil
}

// Delete removes a product and returns its last snapshot. Only the owner may
// delete it.
func (s *ProductService) Delete(ctx context.Context, id, actorID string) (*domain.Product, error) {
	if err := s.checkOwnership(ctx, id, actorID); err != nil {
		return nil, err
	}

	deleted, err := s.catalog.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	slog.Info("product deleted", "product_id", id)
	return deleted, nil
}

func (s *ProductService) checkOwnership(ctx context.Context, id, actorID string) error {
	product, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != actorID {
		return fmt.Errorf("product %s belongs to another seller: %w", id, domain.ErrForbidden)
	}
	return nil
}

func (s *ProductService) cachedList(ctx context.Context, operation, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, s.cache.GenerateKey(operation, key))
	if err != nil || cached == "" {
		return false
	}
	return json.Unmarshal([]byte(cached), out) == nil
}

func (s *ProductService) storeList(ctx context.Context, operation, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.GenerateKey(operation, key), payload, s.cacheTTL); err != nil {
		slog.Warn("catalog cache write failed", "operation", operation, "error", err)
	}
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, operation := range []string{"search", "category"} {
		if err := s.cache.Invalidate(ctx, s.cache.GenerateKey(operation, "")); err != nil {
			slog.Warn("catalog cache invalidation failed", "operation", operation, "error", err)
		}
	}
}
