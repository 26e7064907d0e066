package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
)

// MaxQueryLength is the maximum allowed length of a single query term.
const MaxQueryLength = 256

// Profile is the fixed per-entity search configuration.
type Profile struct {
	Entity entity.Kind
	// DefaultQuery is used when the request carries no query terms.
	DefaultQuery []string
	// TextPath restricts the free-text match to one path. Empty means every text field.
	TextPath   string
	Projection []string
	Limit      int
	// Paths relocates filter paths onto the entity's own document layout.
	Paths map[string]string
}

// PhoneProfile returns the phone search configuration.
func PhoneProfile() Profile {
	return Profile{
		Entity:       entity.Phone,
		DefaultQuery: []string{"ios", "android"},
		Projection:   []string{"name", "slug", "image", "brand", "features"},
		Limit:        6,
		// Phone documents carry the brand at the top level.
		Paths: map[string]string{"phone.brand": "brand"},
	}
}

// OfferProfile returns the offer search configuration.
// Offer queries name a deal type.
func OfferProfile() Profile {
	return Profile{
		Entity:       entity.Offer,
		DefaultQuery: []string{"contract"},
		TextPath:     "dealType",
		Projection:   []string{"phone", "network", "dealType", "deal", "store", "url", "description"},
		Limit:        16,
	}
}

// InvalidPageError reports a page number below 1.
type InvalidPageError struct {
	Page int
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page %d: pages start at 1", e.Page)
}

// QueryTooLongError reports a query term longer than MaxQueryLength.
type QueryTooLongError struct {
	Length int
}

func (e *QueryTooLongError) Error() string {
	return fmt.Sprintf("query too long: %d chars (max %d)", e.Length, MaxQueryLength)
}

// ProfileError reports a profile that cannot page results.
type ProfileError struct {
	Entity entity.Kind
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %q: %s", e.Entity, e.Reason)
}

// ParsePage converts a raw page parameter, falling back to 1
// for absent, non-numeric and non-positive values.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Request is an assembled faceted search.
type Request struct {
	entity     entity.Kind
	query      []string
	textPath   string
	filters    []filter.Clause
	facets     facet.Set
	projection []string
	page       int
	skip       int
	limit      int
}

// New assembles a search request for the given profile.
// Blank query terms are dropped; an empty query falls back to the profile default.
func New(p Profile, query []string, filters []filter.Clause, facets facet.Set, page int) (Request, error) {
	if page < 1 {
		return Request{}, &InvalidPageError{Page: page}
	}
	if p.Limit <= 0 {
		return Request{}, &ProfileError{Entity: p.Entity, Reason: "no limit"}
	}

	terms := make([]string, 0, len(query))
	for _, q := range query {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if len(q) > MaxQueryLength {
			return Request{}, &QueryTooLongError{Length: len(q)}
		}
		terms = append(terms, q)
	}
	if len(terms) == 0 {
		terms = append(terms, p.DefaultQuery...)
	}

	clauses := make([]filter.Clause, 0, len(filters))
	for _, c := range filters {
		if path, ok := p.Paths[c.Path()]; ok {
			c = c.WithPath(path)
		}
		clauses = append(clauses, c)
	}

	if facets == nil {
		facets = facet.Set{}
	}

	return Request{
		entity:     p.Entity,
		query:      terms,
		textPath:   p.TextPath,
		filters:    clauses,
		facets:     facets,
		projection: p.Projection,
		page:       page,
		skip:       (page - 1) * p.Limit,
		limit:      p.Limit,
	}, nil
}

// Entity returns the searched entity type.
func (r *Request) Entity() entity.Kind { return r.entity }

// Query returns the free-text terms; a document matches any of them.
func (r *Request) Query() []string { return r.query }

// TextPath returns the path the free-text match is restricted to, if any.
func (r *Request) TextPath() string { return r.textPath }

// Filters returns the filter clauses every match must satisfy.
func (r *Request) Filters() []filter.Clause { return r.filters }

// Compound reports whether the text match is combined with filters.
func (r *Request) Compound() bool { return len(r.filters) > 0 }

// Facets returns the facets to count alongside the page.
func (r *Request) Facets() facet.Set { return r.facets }

// WithFacets returns a copy of the request counting another facet set.
func (r *Request) WithFacets(s facet.Set) Request {
	if s == nil {
		s = facet.Set{}
	}
	out := *r
	out.facets = s
	return out
}

// Projection returns the document fields to return.
func (r *Request) Projection() []string { return r.projection }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Skip returns the number of documents to skip.
func (r *Request) Skip() int { return r.skip }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }
