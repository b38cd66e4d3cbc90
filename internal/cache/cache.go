// Package cache is the TTL key/value cache in front of the catalog.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long daily songs and search results stay cached.
const DefaultTTL = time.Hour

// Cache stores JSON-encodable values under string keys.
// Get reports whether the key was present and decodes it into dst.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// DailySongKey is the cache key for the song of date (a day string).
func DailySongKey(date string) string {
	return "daily-song-" + date
}

// SearchKey is the cache key for a search query.
func SearchKey(query string) string {
	return "search-" + query
}
