package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/storefront/internal/domain"
)

func newProductService(catalog *fakeCatalog) *ProductService {
	return NewProductService(catalog, nil, 0)
}

func TestCreateOrIncrement(t *testing.T) {
	t.Run("creates a new product with count 1", func(t *testing.T) {
		catalog := newFakeCatalog()
		svc := newProductService(catalog)

		product, created, err := svc.CreateOrIncrement(context.Background(), "seller-1", NewProductInput{
			Name: "Widget", Price: 10, Category: "Tools",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 1, product.Count)
		assert.Equal(t, "seller-1", product.OwnerID)
	})

	t.Run("increments an existing product", func(t *testing.T) {
		catalog := newFakeCatalog(domain.Product{Name: "Widget", Category: "Tools", Price: 10, Count: 4})
		svc := newProductService(catalog)

		product, created, err := svc.CreateOrIncrement(context.Background(), "seller-1", NewProductInput{
			Name: "Widget", Price: 10, Category: "Tools",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 5, product.Count)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := newProductService(newFakeCatalog())

		_, _, err := svc.CreateOrIncrement(context.Background(), "seller-1", NewProductInput{Name: "Widget", Price: 10})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = svc.CreateOrIncrement(context.Background(), "seller-1", NewProductInput{Name: "Widget", Category: "Tools"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestProductUpdateOwnership(t *testing.T) {
	catalog := newFakeCatalog(domain.Product{
		ID: "p1", Name: "Widget", Category: "Tools", Price: 10, Count: 4, OwnerID: "seller-1",
	})
	svc := newProductService(catalog)

	// Ownership mismatch forbids the update; this pins the intended
	// equality-then-forbid comparison.
	_, err := svc.Update(context.Background(), "p1", "seller-2", map[string]interface{}{"price": 12.0})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	product, err := svc.Update(context.Background(), "p1", "seller-1", map[string]interface{}{"price": 12.0})
	require.NoError(t, err)
	assert.Equal(t, 12.0, product.Price)

	_, err = svc.Update(context.Background(), "p1", "seller-1", map[string]interface{}{"owner_id": "seller-2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "non-allow-listed fields are rejected")

	_, err = svc.Update(context.Background(), "p1", "seller-1", map[string]interface{}{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductDeleteOwnership(t *testing.T) {
	catalog := newFakeCatalog(domain.Product{
		ID: "p1", Name: "Widget", Category: "Tools", Price: 10, Count: 4, OwnerID: "seller-1",
	})
	svc := newProductService(catalog)

	_, err := svc.Delete(context.Background(), "p1", "seller-2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	snapshot, err := svc.Delete(context.Background(), "p1", "seller-1")
	require.NoError(t, err)
	assert.Equal(t, "Widget", snapshot.Name)

	_, err = svc.Delete(context.Background(), "p1", "seller-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByCategoryAvailability(t *testing.T) {
	catalog := newFakeCatalog(
		domain.Product{Name: "Widget", Category: "Tools", Price: 10, Count: 4, Description: "a widget"},
		domain.Product{Name: "Gadget", Category: "Tools", Price: 5, Count: 0},
	)
	svc := newProductService(catalog)

	listing, err := svc.GetByCategory(context.Background(), "tools")
	require.NoError(t, err)
	require.Len(t, listing, 2)

	byName := map[string]CategoryProduct{}
	for _, entry := range listing {
		byName[entry.Name] = entry
	}
	assert.Equal(t, "Available", byName["Widget"].StockAvailability)
	assert.Equal(t, "a widget", byName["Widget"].Description)
	assert.Equal(t, "Out of stock", byName["Gadget"].StockAvailability)

	_, err = svc.GetByCategory(context.Background(), "Nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByCategory(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchByName(t *testing.T) {
	catalog := newFakeCatalog(
		domain.Product{Name: "Power Widget", Category: "Tools", Price: 10, Count: 4},
	)
	svc := newProductService(catalog)

	products, err := svc.SearchByName(context.Background(), "widget")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	_, err = svc.SearchByName(context.Background(), "gizmo")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SearchByName(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
