package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
)

func TestSearch_BuildsFacetQuery(t *testing.T) {
	repo, ms := newTestRepo(t)
	req := mustRequest(t, request.OfferProfile(), []string{"simonly"}, "network:EE", 3)

	ms.facetSearchFn = func(_ context.Context, q *db.FacetQuery) (*db.FacetResult, error) {
		if q.Index != "idx:offer" {
			t.Errorf("Index = %q", q.Index)
		}
		if q.TextPath != "dealType" {
			t.Errorf("TextPath = %q", q.TextPath)
		}
		if len(q.Terms) != 1 || q.Terms[0] != "simonly" {
			t.Errorf("Terms = %v", q.Terms)
		}
		if q.Offset != 32 || q.Limit != 16 {
			t.Errorf("page = %d/%d, want 32/16", q.Offset, q.Limit)
		}
		if len(q.Filters) != 1 || q.Filters[0].Path() != "network" {
			t.Errorf("Filters = %v", q.Filters)
		}
		if _, ok := q.Facets["brandsFacet"]; ok {
			t.Error("simonly search must not facet brands")
		}
		return &db.FacetResult{}, nil
	}

	if _, err := repo.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_ProjectsDocuments(t *testing.T) {
	repo, ms := newTestRepo(t)
	req := mustRequest(t, request.PhoneProfile(), nil, "", 1)

	ms.facetSearchFn = func(context.Context, *db.FacetQuery) (*db.FacetResult, error) {
		return &db.FacetResult{
			Total: 9,
			Entries: []db.SearchEntry{{
				Key: "phonedex:phone:p1",
				Fields: map[string]string{
					"$": `{"_id":"p1","name":"Pixel","brand":"google","os":"Android","createdAt":"2024-01-01T00:00:00Z"}`,
				},
			}},
			Facets: map[string][]facet.Bucket{"brandsFacet": {{ID: "google", Count: 9}}},
		}, nil
	}

	raw, err := repo.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw.Docs) != 1 {
		t.Fatalf("len(docs) = %d", len(raw.Docs))
	}

	var doc map[string]any
	if err := json.Unmarshal(raw.Docs[0], &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["os"]; ok {
		t.Error("os is not projected for phones")
	}
	if _, ok := doc["createdAt"]; ok {
		t.Error("createdAt is not projected")
	}
	if doc["_id"] != "p1" || doc["name"] != "Pixel" || doc["brand"] != "google" {
		t.Errorf("unexpected doc: %v", doc)
	}

	if raw.Meta[0].Count.LowerBound != 9 {
		t.Errorf("total = %d", raw.Meta[0].Count.LowerBound)
	}
	if raw.Meta[0].Facet["brandsFacet"][0].Count != 9 {
		t.Errorf("facets = %v", raw.Meta[0].Facet)
	}
}

func TestSearch_BackendError(t *testing.T) {
	repo, ms := newTestRepo(t)
	req := mustRequest(t, request.PhoneProfile(), nil, "", 1)
	ms.facetSearchFn = func(context.Context, *db.FacetQuery) (*db.FacetResult, error) {
		return nil, errors.New("timeout")
	}

	if _, err := repo.Search(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_BadDocument(t *testing.T) {
	repo, ms := newTestRepo(t)
	req := mustRequest(t, request.PhoneProfile(), nil, "", 1)
	ms.facetSearchFn = func(context.Context, *db.FacetQuery) (*db.FacetResult, error) {
		return &db.FacetResult{Total: 1, Entries: []db.SearchEntry{{Key: "k", Fields: map[string]string{"$": "not json"}}}}, nil
	}

	if _, err := repo.Search(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
}
