package elastic

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
)

// Overflow range keys of numeric facets.
const (
	otherLow  = "__other_low"
	otherHigh = "__other_high"
)

// maxStringBuckets caps the distinct values returned per string facet.
const maxStringBuckets = 10

// BuildSearchBody renders a faceted query as an Elasticsearch _search body.
// Filters turn the text match into bool{must, filter}.
func BuildSearchBody(q *db.FacetQuery) map[string]any {
	text := textQuery(q.Terms, q.TextPath)

	query := text
	if len(q.Filters) > 0 {
		filters := make([]any, 0, len(q.Filters))
		for _, c := range q.Filters {
			filters = append(filters, clauseQuery(c))
		}
		query = map[string]any{
			"bool": map[string]any{
				"must":   []any{text},
				"filter": filters,
			},
		}
	}

	body := map[string]any{
		"query":            query,
		"from":             q.Offset,
		"size":             q.Limit,
		"track_total_hits": true,
	}
	if aggs := aggregations(q.Facets); len(aggs) > 0 {
		body["aggs"] = aggs
	}
	return body
}

func textQuery(terms []string, path string) map[string]any {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	if path != "" {
		return anyOf(path, cleaned)
	}
	return map[string]any{
		"multi_match": map[string]any{
			"query":   strings.Join(cleaned, " "),
			"fields":  []string{"*"},
			"lenient": true,
		},
	}
}

func clauseQuery(c filter.Clause) map[string]any {
	if c.IsRange() {
		b := c.Bounds()
		return map[string]any{
			"range": map[string]any{
				c.Path(): map[string]any{"gte": b.Low, "lte": b.High},
			},
		}
	}
	return anyOf(c.Path(), c.Values())
}

// anyOf matches documents whose path matches at least one of the values.
func anyOf(path string, values []string) map[string]any {
	should := make([]any, 0, len(values))
	for _, v := range values {
		should = append(should, map[string]any{
			"match": map[string]any{
				path: map[string]any{"query": v, "operator": "and"},
			},
		})
	}
	return map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}

func aggregations(set facet.Set) map[string]any {
	aggs := make(map[string]any, len(set))
	for name, spec := range set {
		switch spec.Type {
		case facet.String:
			aggs[name] = map[string]any{
				"terms": map[string]any{
					"field": spec.Path + ".keyword",
					"size":  maxStringBuckets,
				},
			}
		case facet.Number:
			b := spec.Boundaries
			if len(b) < 2 {
				continue
			}
			ranges := make([]any, 0, len(b)+1)
			for i := 0; i+1 < len(b); i++ {
				ranges = append(ranges, map[string]any{
					"key":  strconv.FormatFloat(b[i], 'f', -1, 64),
					"from": b[i],
					"to":   b[i+1],
				})
			}
			if spec.Default != "" {
				ranges = append(ranges,
					map[string]any{"key": otherLow, "to": b[0]},
					map[string]any{"key": otherHigh, "from": b[len(b)-1]},
				)
			}
			aggs[name] = map[string]any{
				"range": map[string]any{
					"field":  spec.Path,
					"ranges": ranges,
				},
			}
		}
	}
	return aggs
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      any      `json:"key"`
			From     *float64 `json:"from"`
			DocCount int64    `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

func toFacetResult(q *db.FacetQuery, resp *searchResponse) (*db.FacetResult, error) {
	out := &db.FacetResult{
		Total:  resp.Hits.Total.Value,
		Facets: make(map[string][]facet.Bucket, len(q.Facets)),
	}

	for _, hit := range resp.Hits.Hits {
		doc, err := withID(hit.Source, hit.ID)
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, db.SearchEntry{
			Key:    hit.ID,
			Score:  hit.Score,
			Fields: map[string]string{db.FieldDocument: doc},
		})
	}

	names := q.Facets.Names()
	sort.Strings(names)
	for _, name := range names {
		spec := q.Facets[name]
		buckets := []facet.Bucket{}
		var other int64

		for _, b := range resp.Aggregations[name].Buckets {
			switch {
			case spec.Type == facet.String:
				buckets = append(buckets, facet.Bucket{ID: b.Key, Count: b.DocCount})
			case b.Key == otherLow || b.Key == otherHigh:
				other += b.DocCount
			case b.From != nil:
				buckets = append(buckets, facet.Bucket{ID: *b.From, Count: b.DocCount})
			}
		}
		if other > 0 {
			buckets = append(buckets, facet.Bucket{ID: spec.Default, Count: other})
		}
		out.Facets[name] = buckets
	}

	return out, nil
}
