package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
)

// store is the consumer interface for faceted search (ISP).
type store interface {
	FacetSearch(ctx context.Context, q *db.FacetQuery) (*db.FacetResult, error)
}

// Repo implements usecase/search.Repository on any faceted search backend.
type Repo struct {
	store    store
	indexFor func(entity.Kind) string
}

// New creates a search repository. indexFor names the backend index of an entity.
func New(s store, indexFor func(entity.Kind) string) *Repo {
	return &Repo{store: s, indexFor: indexFor}
}

// Search runs one faceted search round trip and returns the raw backend shape.
func (r *Repo) Search(ctx context.Context, req *request.Request) (result.Raw, error) {
	q := &db.FacetQuery{
		Index:    r.indexFor(req.Entity()),
		Terms:    req.Query(),
		TextPath: req.TextPath(),
		Filters:  req.Filters(),
		Facets:   req.Facets(),
		Offset:   req.Skip(),
		Limit:    req.Limit(),
	}

	fr, err := r.store.FacetSearch(ctx, q)
	if err != nil {
		return result.Raw{}, fmt.Errorf("facet search %s: %w", req.Entity(), err)
	}

	docs := make([]json.RawMessage, 0, len(fr.Entries))
	for _, entry := range fr.Entries {
		doc, err := project(entry.Fields[db.FieldDocument], req.Projection())
		if err != nil {
			return result.Raw{}, fmt.Errorf("project %s: %w", entry.Key, err)
		}
		docs = append(docs, doc)
	}

	return result.NewRaw(docs, int64(fr.Total), fr.Facets), nil
}

// project keeps _id and the projected top-level fields of a JSON document.
func project(doc string, fields []string) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(fields)+1)
	if id, ok := m["_id"]; ok {
		out["_id"] = id
	}
	for _, f := range fields {
		if v, ok := m[f]; ok {
			out[f] = v
		}
	}
	return json.Marshal(out)
}
