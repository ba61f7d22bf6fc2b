package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
)

const (
	cacheKeyAll      = "catalog:all"
	cacheKeyFeatured = "catalog:featured"
)

// Reader is the catalog read boundary backing the shop and home views.
type Reader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Cache stores product listings between reads. A nil Cache disables
// caching entirely.
type Cache interface {
	GetCachedProducts(ctx context.Context, key string) ([]models.Product, error)
	CacheProducts(ctx context.Context, key string, products []models.Product) error
}

type Service struct {
	reader Reader
	cache  Cache
	logger *zap.Logger
}

func NewService(reader Reader, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, cache: cache, logger: logger}
}

// Products returns the full catalog, served from cache when possible.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.listThroughCache(ctx, cacheKeyAll, s.reader.ListProducts)
}

// Featured returns the products flagged for the home screen.
func (s *Service) Featured(ctx context.Context) ([]models.Product, error) {
	return s.listThroughCache(ctx, cacheKeyFeatured, s.reader.FeaturedProducts)
}

// ByCategory groups the catalog by category, preserving catalog order
// within each group. Products without a category are left out, matching
// the shop view which only renders categorized sections.
func (s *Service) ByCategory(ctx context.Context) (map[string][]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.Product)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups, nil
}

// Product looks up a single catalog record for the detail view.
func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.reader.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return product, nil
}

func (s *Service) listThroughCache(ctx context.Context, key string, load func(context.Context) ([]models.Product, error)) ([]models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.GetCachedProducts(ctx, key); err == nil {
			return products, nil
		}
	}

	products, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheProducts(ctx, key, products); err != nil {
			s.logger.Warn("failed to cache products", zap.String("key", key), zap.Error(err))
		}
	}

	return products, nil
}
