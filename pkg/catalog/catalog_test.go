package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/pkg/models"
)

type fakeReader struct {
	products []models.Product
	featured []models.Product
	err      error
	calls    int
}

func (f *fakeReader) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeReader) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.featured, f.err
}

func (f *fakeReader) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, errors.New("not found")
}

type fakeCache struct {
	entries map[string][]models.Product
}

func (f *fakeCache) GetCachedProducts(ctx context.Context, key string) ([]models.Product, error) {
	if products, ok := f.entries[key]; ok {
		return products, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeCache) CacheProducts(ctx context.Context, key string, products []models.Product) error {
	if f.entries == nil {
		f.entries = make(map[string][]models.Product)
	}
	f.entries[key] = products
	return nil
}

func sampleCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Tee", Price: "₹499", Category: "tshirts"},
		{ID: "2", Name: "Hoodie", Price: "₹1,299", Category: "hoodies"},
		{ID: "3", Name: "Cap", Price: "₹250"}, // no category
		{ID: "4", Name: "Tee 2", Price: "₹599", Category: "tshirts"},
	}
}

func TestProductsPopulatesCache(t *testing.T) {
	reader := &fakeReader{products: sampleCatalog()}
	cache := &fakeCache{}
	svc := NewService(reader, cache, nil)

	products, err := svc.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, 1, reader.calls)

	// Second read is served from cache.
	_, err = svc.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reader.calls)
}

func TestProductsWithoutCache(t *testing.T) {
	reader := &fakeReader{products: sampleCatalog()}
	svc := NewService(reader, nil, nil)

	_, err := svc.Products(context.Background())
	require.NoError(t, err)
	_, err = svc.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, reader.calls)
}

func TestFeatured(t *testing.T) {
	reader := &fakeReader{featured: sampleCatalog()[:1]}
	svc := NewService(reader, &fakeCache{}, nil)

	featured, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Tee", featured[0].Name)
}

func TestByCategory(t *testing.T) {
	reader := &fakeReader{products: sampleCatalog()}
	svc := NewService(reader, nil, nil)

	groups, err := svc.ByCategory(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Len(t, groups["tshirts"], 2)
	assert.Len(t, groups["hoodies"], 1)
	// Catalog order is preserved within a group.
	assert.Equal(t, "Tee", groups["tshirts"][0].Name)
	assert.Equal(t, "Tee 2", groups["tshirts"][1].Name)
}

func TestProductLookup(t *testing.T) {
	reader := &fakeReader{products: sampleCatalog()}
	svc := NewService(reader, nil, nil)

	product, err := svc.Product(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", product.Name)

	_, err = svc.Product(context.Background(), "missing")
	assert.Error(t, err)
}

func TestReaderErrorPropagates(t *testing.T) {
	reader := &fakeReader{err: errors.New("db down")}
	svc := NewService(reader, nil, nil)

	_, err := svc.Products(context.Background())
	assert.Error(t, err)
}
