package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/markyai/studio-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// GalleryCacheTTL bounds how stale a cached gallery list may get
	GalleryCacheTTL = 15 * time.Minute
)

// CacheService provides JSON caching on Redis. All operations fail open
// when Redis is unavailable so callers fall back to the backing store.
type CacheService struct{}

// Get retrieves a value from cache. A miss is not an error.
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}
	ctx := context.Background()

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // Cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with the gallery TTL.
func (c *CacheService) Set(key string, value interface{}) error {
	return c.SetWithTTL(key, value, GalleryCacheTTL)
}

// SetWithTTL stores a value in cache with a custom TTL.
func (c *CacheService) SetWithTTL(key string, value interface{}, ttl time.Duration) error {
	if database.RedisClient == nil {
		return nil
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(context.Background(), CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache.
func (c *CacheService) Delete(key string) error {
	if database.RedisClient == nil {
		return nil
	}
	return database.RedisClient.Del(context.Background(), CacheKeyPrefix+key).Err()
}

// Global cache service instance
var Cache = &CacheService{}
