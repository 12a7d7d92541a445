package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

const keyPrefix = "globetrotter:catalog:"

// source is the subset of *Store the cache reads through to.
type source interface {
	Destination(ctx context.Context, id string) (globetrotter.Destination, error)
	ListDestinations(ctx context.Context, limit int) ([]globetrotter.DestinationSummary, error)
}

// Cache is a read-through Redis cache in front of the catalog. Catalog
// rows never change at runtime, so entries only expire by TTL. A nil
// client disables caching; Redis failures are logged and fall back to
// the store.
type Cache struct {
	src    source
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

func NewCache(src source, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{src: src, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *Cache) Destination(ctx context.Context, id string) (globetrotter.Destination, error) {
	var d globetrotter.Destination
	err := c.load(ctx, keyPrefix+"destination:"+id, &d, func() (any, error) {
		return c.src.Destination(ctx, id)
	})
	return d, err
}

func (c *Cache) ListDestinations(ctx context.Context, limit int) ([]globetrotter.DestinationSummary, error) {
	var out []globetrotter.DestinationSummary
	err := c.load(ctx, fmt.Sprintf("%sdestinations:%d", keyPrefix, limit), &out, func() (any, error) {
		return c.src.ListDestinations(ctx, limit)
	})
	return out, err
}

// load fills dest from Redis, or from fetch on a miss. Concurrent misses
// for the same key share one fetch.
func (c *Cache) load(ctx context.Context, key string, dest any, fetch func() (any, error)) error {
	if c.rdb == nil {
		v, err := fetch()
		if err != nil {
			return err
		}
		return assign(v, dest)
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(data, dest); err == nil {
			return nil
		}
		c.logger.Warn("discarding undecodable catalog cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding catalog cache entry: %w", err)
		}
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dest)
}

func assign(v, dest any) error {
	switch d := dest.(type) {
	case *globetrotter.Destination:
		*d = v.(globetrotter.Destination)
	case *[]globetrotter.DestinationSummary:
		*d = v.([]globetrotter.DestinationSummary)
	default:
		return fmt.Errorf("unsupported cache destination %T", dest)
	}
	return nil
}
