package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CatalogKey returns the cache key for one user's assembled catalog.
func CatalogKey(userID uint) string {
	return fmt.Sprintf("catalog:user:%d", userID)
}

// BookListKey returns the cache key for a public book listing page.
func BookListKey(page, pageSize int, status, bookType string, categoryID uint) string {
	return fmt.Sprintf("books:%d:%d:%s:%s:%d", page, pageSize, status, bookType, categoryID)
}

// Cache is the Redis-backed domain.Cache. Every key is namespaced under
// keyPrefix so Clear cannot touch another application's data.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewCache creates a Cache namespaced under keyPrefix.
func NewCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value. A missing key is (nil, nil), not an error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.buildKey(key)

	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, err
	}

	c.logger.Debug("cache hit",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return data, nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := c.buildKey(key)

	err := c.client.Set(ctx, fullKey, value, ttl).Err()
	if err != nil {
		c.logger.Error("cache set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes one key. Deleting a missing key is a no-op.
func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.buildKey(key)

	err := c.client.Del(ctx, fullKey).Err()
	if err != nil {
		c.logger.Error("cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache delete",
		zap.String("key", key),
	)

	return nil
}

// Clear drops every key under the prefix. Catalog and listing entries
// share the namespace, so settings and linkage changes call this rather
// than track individual keys. SCAN keeps it non-blocking.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := c.keyPrefix + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		c.logger.Error("cache clear scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)

		return err
	}

	if len(keys) > 0 {
		err := c.client.Del(ctx, keys...).Err()
		if err != nil {
			c.logger.Error("cache clear delete failed",
				zap.Int("key_count", len(keys)),
				zap.Error(err),
			)

			return err
		}

		c.logger.Info("cache cleared",
			zap.Int("key_count", len(keys)),
		)
	} else {
		c.logger.Debug("cache clear: no keys found",
			zap.String("pattern", pattern),
		)
	}

	return nil
}

func (c *Cache) buildKey(key string) string {
	return c.keyPrefix + ":" + key
}
