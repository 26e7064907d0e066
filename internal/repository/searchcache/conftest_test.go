package searchcache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
)

type mockSearcher struct {
	raw   result.Raw
	err   error
	calls int
}

func (m *mockSearcher) Search(context.Context, *request.Request) (result.Raw, error) {
	m.calls++
	return m.raw, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_search_cache_total",
	}, []string{"entity", "result"})
	return New(inner, ms, time.Minute, counter, zap.NewNop()), ms, counter
}

func mustRequest(t *testing.T, p request.Profile, query []string, fq string, page int) *request.Request {
	t.Helper()
	clauses, err := filter.Parse(fq)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	req, err := request.New(p, query, clauses, facet.Build(p.Entity, query), page)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}
