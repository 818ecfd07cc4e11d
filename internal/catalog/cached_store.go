package catalog

import (
	"context"
	"time"

	"whiteboard-service/pkg/logger"
)

// Cache is a JSON value cache. services.RedisService implements it.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

// CacheKey holds the cached catalog; delete it after changing the backing store
const CacheKey = "whiteboard:catalog:templates"

// CachedStore serves the catalog from a cache, refilling it from the wrapped store on a
// miss. Cache failures fall through to the store.
type CachedStore struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedStore(store Store, cache Cache, ttl time.Duration, log *logger.Logger) *CachedStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedStore{store: store, cache: cache, ttl: ttl, logger: log}
}

func (s *CachedStore) List(ctx context.Context) ([]Template, error) {
	var cached []Template
	if err := s.cache.Get(ctx, CacheKey, &cached); err == nil {
		return cached, nil
	}

	templates, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, CacheKey, templates, s.ttl); err != nil {
		s.logger.Warn("Failed to cache template catalog", "error", err)
	}
	return templates, nil
}
