package facet

import (
	"slices"

	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
)

// Type is the facet bucketing strategy.
type Type string

// Facet types.
const (
	// String buckets documents by distinct values of a path.
	String Type = "string"
	// Number buckets documents into half-open intervals between boundaries.
	Number Type = "number"
)

// DefaultBucket collects numeric values outside every boundary interval.
const DefaultBucket = "Other"

// Query sentinels that suppress offer facets.
const (
	SimOnly = "simonly"
	SimFree = "simfree"
)

// Spec describes a single facet computed alongside a search.
type Spec struct {
	Type       Type
	Path       string
	Boundaries []float64
	Default    string
}

// Set maps facet names to their specs.
type Set map[string]Spec

// Names returns the facet names of the set.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}

// Bucket is a single facet count on the wire.
// ID is the distinct value for string facets and the lower boundary
// (or DefaultBucket) for number facets.
type Bucket struct {
	ID    any   `json:"_id"`
	Count int64 `json:"count"`
}

var (
	costBoundaries           = []float64{5, 10, 20, 40, 60, 100, 200, 400, 800, 1600}
	contractLengthBoundaries = []float64{1, 12, 24, 36}
)

// Build returns the facets computed for a search over the given entity.
// Offer facets depend on the deal type being searched. Each call returns fresh boundary slices.
func Build(e entity.Kind, query []string) Set {
	switch e {
	case entity.Phone:
		return Set{
			"brandsFacet": {Type: String, Path: "brand"},
			"osFacet":     {Type: String, Path: "os"},
			"colorFacet":  {Type: String, Path: "features.color"},
		}
	case entity.Offer:
		set := Set{
			"costFacet": {
				Type:       Number,
				Path:       "deal.cost",
				Boundaries: slices.Clone(costBoundaries),
				Default:    DefaultBucket,
			},
		}
		if !equals(query, SimOnly) {
			set["brandsFacet"] = Spec{Type: String, Path: "phone.brand"}
		}
		if !equals(query, SimFree) {
			set["contractLengthFacet"] = Spec{
				Type:       Number,
				Path:       "deal.contractLength",
				Boundaries: slices.Clone(contractLengthBoundaries),
				Default:    DefaultBucket,
			}
			set["networkFacet"] = Spec{Type: String, Path: "network"}
		}
		return set
	default:
		return Set{}
	}
}

// equals reports whether the query is exactly the single sentinel value.
func equals(query []string, sentinel string) bool {
	return len(query) == 1 && query[0] == sentinel
}
