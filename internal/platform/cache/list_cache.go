package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
	"github.com/phrazzld/taskmanager-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// Defaults applied by NewListCache for zero-valued options.
const (
	DefaultPrefix = "taskapi:list:"
	DefaultTTL    = 30 * time.Second
	scanBatchSize = 100
)

// Stats tracks cache statistics.
type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Sets          uint64 `json:"sets"`
	Invalidations uint64 `json:"invalidations"`
	Errors        uint64 `json:"errors"`
}

// ListCache decorates a store.DocumentStore with cached List results.
// Writes invalidate the collection before and after reaching the wrapped
// store. A List miss racing a write can still cache a stale result for at
// most the TTL.
type ListCache struct {
	next   store.DocumentStore
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger

	hits, misses, sets, invalidations, errs atomic.Uint64
}

// Ensure ListCache implements store.DocumentStore interface
var _ store.DocumentStore = (*ListCache)(nil)

// NewListCache wraps next. An empty prefix or non-positive ttl falls back to
// DefaultPrefix and DefaultTTL.
func NewListCache(
	next store.DocumentStore,
	client redis.UniversalClient,
	prefix string,
	ttl time.Duration,
	logger *slog.Logger,
) *ListCache {
	if next == nil || client == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("next store and redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ListCache{
		next:   next,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "list_cache")),
	}
}

// Create implements store.DocumentStore.Create.
func (c *ListCache) Create(ctx context.Context, collection string, fields store.Document) (store.Document, error) {
	c.invalidate(ctx, collection)
	doc, err := c.next.Create(ctx, collection, fields)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, collection)
	return doc, nil
}

// List implements store.DocumentStore.List using the cache-aside pattern.
func (c *ListCache) List(
	ctx context.Context,
	collection string,
	filter store.Filter,
	limit int,
) ([]store.Document, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	key, err := c.listKey(collection, filter, limit)
	if err != nil {
		c.errs.Add(1)
		log.Warn("failed to build cache key, bypassing cache", slog.String("error", err.Error()))
		return c.next.List(ctx, collection, filter, limit)
	}

	if docs, ok := c.get(ctx, log, key); ok {
		return docs, nil
	}

	docs, err := c.next.List(ctx, collection, filter, limit)
	if err != nil {
		return nil, err
	}

	c.set(ctx, log, key, docs)
	return docs, nil
}

// Update implements store.DocumentStore.Update.
func (c *ListCache) Update(
	ctx context.Context,
	collection, id string,
	fields store.Document,
) (store.Document, error) {
	c.invalidate(ctx, collection)
	doc, err := c.next.Update(ctx, collection, id, fields)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, collection)
	return doc, nil
}

// Delete implements store.DocumentStore.Delete.
func (c *ListCache) Delete(ctx context.Context, collection, id string) (bool, error) {
	c.invalidate(ctx, collection)
	deleted, err := c.next.Delete(ctx, collection, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx, collection)
	}
	return deleted, nil
}

// Stats returns a snapshot of the cache counters.
func (c *ListCache) Stats() Stats {
	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Sets:          c.sets.Load(),
		Invalidations: c.invalidations.Load(),
		Errors:        c.errs.Load(),
	}
}

func (c *ListCache) get(ctx context.Context, log *slog.Logger, key string) ([]store.Document, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, false
		}
		c.errs.Add(1)
		log.Warn("cache get failed, falling back to store", slog.String("error", err.Error()))
		return nil, false
	}

	docs, err := decodeDocuments(data)
	if err != nil {
		c.errs.Add(1)
		log.Warn("discarding undecodable cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}

	c.hits.Add(1)
	log.Debug("cache hit", slog.String("key", key), slog.Int("count", len(docs)))
	return docs, true
}

func (c *ListCache) set(ctx context.Context, log *slog.Logger, key string, docs []store.Document) {
	data, err := json.Marshal(docs)
	if err != nil {
		c.errs.Add(1)
		log.Warn("failed to encode documents for cache", slog.String("error", err.Error()))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.errs.Add(1)
		log.Warn("cache set failed", slog.String("error", err.Error()))
		return
	}
	c.sets.Add(1)
}

// invalidate removes every cached list of collection.
func (c *ListCache) invalidate(ctx context.Context, collection string) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	pattern := c.prefix + collection + ":*"

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			c.errs.Add(1)
			log.Warn("cache invalidation scan failed",
				slog.String("collection", collection),
				slog.String("error", err.Error()))
			return
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.errs.Add(1)
				log.Warn("cache invalidation delete failed",
					slog.String("collection", collection),
					slog.String("error", err.Error()))
				return
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.invalidations.Add(1)
	log.Debug("cache invalidated",
		slog.String("collection", collection),
		slog.Int("keys", removed))
}

// listKey derives a stable key from the collection, filter and limit.
// encoding/json sorts map keys, so equal filters hash identically.
func (c *ListCache) listKey(collection string, filter store.Filter, limit int) (string, error) {
	payload, err := json.Marshal(struct {
		Equal    map[string]any  `json:"equal,omitempty"`
		Contains *store.Contains `json:"contains,omitempty"`
		Limit    int             `json:"limit"`
	}{filter.Equal, filter.Contains, store.NormalizeLimit(limit)})
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}

	sum := sha256.Sum256(payload)
	return c.prefix + collection + ":" + hex.EncodeToString(sum[:]), nil
}

// decodeDocuments restores cached documents. The gateway timestamps are
// parsed back into time.Time; other values keep their JSON types.
func decodeDocuments(data []byte) ([]store.Document, error) {
	var docs []store.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		for _, field := range []string{store.FieldCreatedAt, store.FieldUpdatedAt} {
			s, ok := doc[field].(string)
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field, err)
			}
			doc[field] = t.UTC()
		}
	}

	if docs == nil {
		docs = []store.Document{}
	}
	return docs, nil
}
