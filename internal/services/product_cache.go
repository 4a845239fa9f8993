package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shopforge/internal/domain"
	"shopforge/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

const productCacheTTL = time.Minute

// ProductCache fronts the product repository with an optional redis cache.
// Stock reads bypass the cache on purpose: stock checks must always see
// the current counter.
type ProductCache struct {
	products    repository.ProductRepository
	redisClient *redis.Client
}

func NewProductCache(products repository.ProductRepository) *ProductCache {
	return &ProductCache{products: products}
}

func (c *ProductCache) SetRedisClient(client *redis.Client) {
	c.redisClient = client
}

func (c *ProductCache) Get(ctx context.Context, productID uint64) (*domain.Product, error) {
	cacheKey := fmt.Sprintf("product:%d", productID)

	if c.redisClient != nil {
		cached, err := c.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod domain.Product
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := c.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if c.redisClient != nil && prod != nil {
		if data, err := json.Marshal(prod); err == nil {
			c.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return prod, nil
}

// Stock reads the live stock counter, never the cache.
func (c *ProductCache) Stock(ctx context.Context, productID uint64) (int64, error) {
	return c.products.StockQuantity(ctx, productID)
}

// Warmup primes the cache with every active product.
func (c *ProductCache) Warmup(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}

	products, err := c.products.ListActive(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, p := range products {
		p := p
		g.Go(func() error {
			data, err := json.Marshal(&p)
			if err != nil {
				return err
			}
			cacheKey := fmt.Sprintf("product:%d", p.ID)
			if err := c.redisClient.Set(ctx, cacheKey, data, 5*time.Minute).Err(); err != nil {
				log.Printf("Failed to warm up cache for product %d: %v", p.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
