package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
)

// ErrCacheMiss is returned when a requested key is not cached.
var ErrCacheMiss error = redis.Nil

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// CacheProducts stores a product listing under the given key for the
// configured cache TTL.
func (r *RedisRepository) CacheProducts(ctx context.Context, key string, products []models.Product) error {
	ttl := r.config.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return r.SetJSON(ctx, key, products, ttl)
}

// GetCachedProducts loads a product listing cached under the given key.
// Returns ErrCacheMiss when nothing is cached.
func (r *RedisRepository) GetCachedProducts(ctx context.Context, key string) ([]models.Product, error) {
	var products []models.Product
	if err := r.GetJSON(ctx, key, &products); err != nil {
		return nil, err
	}
	return products, nil
}
