package result

import (
	"encoding/json"

	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
)

// Raw is the search backend response: one page of documents plus facet metadata.
type Raw struct {
	Docs []json.RawMessage `json:"docs"`
	Meta []Meta            `json:"meta"`
}

// Meta carries the total count and facet buckets of a search.
type Meta struct {
	Count *Count                    `json:"count,omitempty"`
	Facet map[string][]facet.Bucket `json:"facet,omitempty"`
}

// Count is the number of matching documents. The backend may report a lower bound.
type Count struct {
	LowerBound int64 `json:"lowerBound"`
}

// NewRaw wraps an exact total and facet buckets into a backend response.
func NewRaw(docs []json.RawMessage, total int64, facets map[string][]facet.Bucket) Raw {
	return Raw{
		Docs: docs,
		Meta: []Meta{{Count: &Count{LowerBound: total}, Facet: facets}},
	}
}

// Page is the search response envelope.
type Page struct {
	Total      int64                     `json:"total"`
	CurPage    int                       `json:"curPage"`
	TotalPages int64                     `json:"totalPages"`
	Docs       []json.RawMessage         `json:"docs"`
	Filters    map[string][]facet.Bucket `json:"filters"`
}

// Normalize reshapes a backend response into the page envelope.
// Missing metadata yields a zero total and no filters.
func Normalize(raw Raw, page, limit int) Page {
	out := Page{
		CurPage: page,
		Docs:    raw.Docs,
		Filters: map[string][]facet.Bucket{},
	}
	if out.Docs == nil {
		out.Docs = []json.RawMessage{}
	}

	if len(raw.Meta) > 0 {
		meta := raw.Meta[0]
		if meta.Count != nil {
			out.Total = meta.Count.LowerBound
		}
		if meta.Facet != nil {
			out.Filters = meta.Facet
		}
	}

	out.TotalPages = TotalPages(out.Total, limit)
	return out
}

// TotalPages returns ceil(total/limit), or 0 for a non-positive limit.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
