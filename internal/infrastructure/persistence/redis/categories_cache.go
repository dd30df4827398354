package redis

import (
	"context"
	"errors"
)

const categoriesKey = PrefixCategories + "all"

// CategoriesCache хранит вычисленный список категорий.
type CategoriesCache struct {
	cache *Cache
}

// NewCategoriesCache creates a CategoriesCache.
func NewCategoriesCache(cache *Cache) *CategoriesCache {
	return &CategoriesCache{cache: cache}
}

// Get возвращает список из кэша и признак его наличия.
func (c *CategoriesCache) Get(ctx context.Context) ([]string, bool, error) {
	var cats []string
	err := c.cache.Get(ctx, categoriesKey, &cats)
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cats, true, nil
}

// Set stores the list.
func (c *CategoriesCache) Set(ctx context.Context, cats []string) error {
	return c.cache.Set(ctx, categoriesKey, cats, TTLCategories)
}

// Invalidate сбрасывает закэшированный список.
func (c *CategoriesCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, categoriesKey)
}
