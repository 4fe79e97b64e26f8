package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lenacars/adminpanel-sub000/internal/observability"
)

const listingKey = "catalog:storage:listing"

// Lister is the listing contract CachedLister decorates.
type Lister interface {
	ListFileNames(ctx context.Context) ([]string, error)
	PublicURL(fileName string) string
}

// CachedLister caches the bucket listing in Redis with a TTL. The catalog has
// no real-time sync requirement, so a slightly stale listing between imports
// is acceptable; cache failures fall back to the bucket.
type CachedLister struct {
	inner  Lister
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedLister(inner Lister, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedLister {
	return &CachedLister{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedLister) ListFileNames(ctx context.Context) ([]string, error) {
	data, err := c.client.Get(ctx, listingKey).Bytes()
	if err == nil {
		var names []string
		if err := json.Unmarshal(data, &names); err == nil {
			observability.ListingFetches.WithLabelValues("cache").Inc()
			return names, nil
		}
		c.logger.Warn("corrupt listing cache entry, refetching", "key", listingKey)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("listing cache read failed, falling back to bucket", "error", err)
	}

	names, err := c.inner.ListFileNames(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(names); err == nil {
		if err := c.client.Set(ctx, listingKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("listing cache write failed", "error", err)
		}
	}
	return names, nil
}

func (c *CachedLister) PublicURL(fileName string) string {
	return c.inner.PublicURL(fileName)
}

// Invalidate drops the cached listing so the next import lists the bucket
// again, e.g. right after new images were uploaded.
func (c *CachedLister) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		return fmt.Errorf("invalidate listing cache: %w", err)
	}
	return nil
}
