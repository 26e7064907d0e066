package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	facetSearchFn func(ctx context.Context, q *db.FacetQuery) (*db.FacetResult, error)
}

func (m *mockStore) FacetSearch(ctx context.Context, q *db.FacetQuery) (*db.FacetResult, error) {
	if m.facetSearchFn != nil {
		return m.facetSearchFn(ctx, q)
	}
	return &db.FacetResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, func(e entity.Kind) string { return "idx:" + string(e) })
	return repo, ms
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
