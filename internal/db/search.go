package db

import (
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
)

// FacetQuery is the input for a faceted text search.
type FacetQuery struct {
	Index string
	// Terms are OR'ed; a document matches when any term matches.
	Terms []string
	// TextPath restricts the terms to one exact-match path. Empty means every text field.
	TextPath string
	Filters  []filter.Clause
	Facets   facet.Set
	Offset   int
	Limit    int
}

// FacetResult is the output of a faceted search.
type FacetResult struct {
	Total   int
	Entries []SearchEntry
	Facets  map[string][]facet.Bucket
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// JSON documents come back whole under FieldDocument.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
