package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoryKey = "catalog:categories"
	categoryTTL = 5 * time.Minute
)

// CategoryCache caches the distinct category listing in Redis. Callers
// treat it as best-effort; every error path degrades to a direct read.
type CategoryCache struct {
	client *redis.Client
}

func NewCategoryCache(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

func (c *CategoryCache) Get(ctx context.Context) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, categoryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("category cache get: %w", err)
	}

	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, fmt.Errorf("category cache decode: %w", err)
	}
	return categories, true, nil
}

func (c *CategoryCache) Set(ctx context.Context, categories []string) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoryKey, raw, categoryTTL).Err()
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoryKey).Err()
}
