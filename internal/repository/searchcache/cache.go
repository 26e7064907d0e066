package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
)

var cacheKeyPrefix = domain.KeyPrefix + "search_cache:"

// searcher is the decorated search repository.
type searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Raw, error)
}

// store is the consumer interface for the search cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher caches raw search responses in a key-value store for a short TTL.
type CachedSearcher struct {
	inner      searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "entity" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached response or calls the inner searcher.
// Cache failures degrade to an uncached search.
func (c *CachedSearcher) Search(ctx context.Context, req *request.Request) (result.Raw, error) {
	key := CacheKey(req)
	entity := string(req.Entity())

	if raw, ok := c.getFromCache(ctx, key); ok {
		c.incCache(entity, "hit")
		return raw, nil
	}

	c.incCache(entity, "miss")

	raw, err := c.inner.Search(ctx, req)
	if err != nil {
		return result.Raw{}, fmt.Errorf("search: %w", err)
	}

	c.putToCache(ctx, key, raw)
	return raw, nil
}

// CacheKey derives a stable key from everything that shapes a search response.
func CacheKey(req *request.Request) string {
	var b strings.Builder
	b.WriteString(string(req.Entity()))
	b.WriteByte('\n')
	b.WriteString(strings.Join(req.Query(), "\x1f"))
	b.WriteByte('\n')
	b.WriteString(req.TextPath())
	b.WriteByte('\n')
	for _, c := range req.Filters() {
		b.WriteString(c.Path())
		b.WriteByte('=')
		b.WriteString(c.String())
		b.WriteByte('\x1f')
	}
	b.WriteByte('\n')
	names := req.Facets().Names()
	b.WriteString(strings.Join(names, ","))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(req.Skip()))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(req.Limit()))

	h := sha256.Sum256([]byte(b.String()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) incCache(entity, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(entity, result).Inc()
	}
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (result.Raw, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search", zap.String("key", key), zap.Error(err))
		}
		return result.Raw{}, false
	}
	if len(data) == 0 {
		return result.Raw{}, false
	}

	var raw result.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("Failed to parse cached search", zap.String("key", key), zap.Error(err))
		return result.Raw{}, false
	}
	return raw, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, raw result.Raw) {
	data, err := json.Marshal(raw)
	if err != nil {
		c.logger.Warn("Failed to encode search for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search", zap.String("key", key), zap.Error(err))
	}
}
