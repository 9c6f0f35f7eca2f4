package probe

import (
	"context"
	"log/slog"

	"footage/internal/logging"
)

// Cached serves probes from a Cache and falls through to an inner Prober on
// a miss. Cache errors are logged and bypassed.
type Cached struct {
	inner  Prober
	cache  *Cache
	logger *slog.Logger
}

// NewCached wraps inner with cache. A nil cache disables caching.
func NewCached(inner Prober, cache *Cache, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, logger: logging.NewComponentLogger(logger, "probe_cache")}
}

// Probe implements Prober.
func (c *Cached) Probe(ctx context.Context, path string) Result {
	if c.cache == nil {
		return c.inner.Probe(ctx, path)
	}
	key, err := KeyFor(path)
	if err != nil {
		return c.inner.Probe(ctx, path)
	}

	meta, ok, err := c.cache.Lookup(ctx, key)
	if err != nil {
		c.warn(ctx, path, err)
	} else if ok {
		c.logger.Debug("probe cache hit", logging.String(logging.FieldPath, path))
		return Result{Metadata: meta}
	}

	result := c.inner.Probe(ctx, path)
	if result.Degraded {
		return result
	}
	if err := c.cache.Store(ctx, key, result.Metadata); err != nil {
		c.warn(ctx, path, err)
	}
	return result
}

func (c *Cached) warn(ctx context.Context, path string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, c.logger), "probe cache unavailable", "probe_cache_failed",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the cache database if the error persists"),
		logging.String(logging.FieldImpact, "metadata is probed without caching"))
}
