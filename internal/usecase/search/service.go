package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
)

// Error reports a failed backend round-trip. No partial page accompanies it.
type Error struct {
	Entity entity.Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("search %s: %v", e.Entity, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Query is the raw input of a search endpoint.
type Query struct {
	// Terms are the free-text alternatives; empty means the entity default.
	Terms []string
	// Filter is the compact filter query, e.g. "cost:10|brand:apple".
	Filter string
	Page   int
}

// Service runs faceted phone and offer searches.
type Service struct {
	repo   Repository
	phones request.Profile
	offers request.Profile
}

// New creates a search service with the stock phone and offer profiles.
func New(repo Repository) *Service {
	return &Service{repo: repo, phones: request.PhoneProfile(), offers: request.OfferProfile()}
}

// WithPageSizes overrides the page size of each profile. Non-positive values keep the default.
func (s *Service) WithPageSizes(phones, offers int) *Service {
	if phones > 0 {
		s.phones.Limit = phones
	}
	if offers > 0 {
		s.offers.Limit = offers
	}
	return s
}

// Phones searches the phone catalogue.
func (s *Service) Phones(ctx context.Context, q Query) (result.Page, error) {
	return s.Search(ctx, s.phones, q)
}

// Offers searches the offer catalogue.
func (s *Service) Offers(ctx context.Context, q Query) (result.Page, error) {
	return s.Search(ctx, s.offers, q)
}

// Search parses the filter, assembles the request with the facets matching
// the effective query, runs it and normalises the backend response.
func (s *Service) Search(ctx context.Context, p request.Profile, q Query) (result.Page, error) {
	clauses, err := filter.Parse(q.Filter)
	if err != nil {
		return result.Page{}, err
	}

	req, err := request.New(p, q.Terms, clauses, nil, q.Page)
	if err != nil {
		return result.Page{}, err
	}
	req = req.WithFacets(facet.Build(req.Entity(), req.Query()))

	raw, err := s.repo.Search(ctx, &req)
	if err != nil {
		return result.Page{}, &Error{Entity: req.Entity(), Err: err}
	}

	return result.Normalize(raw, req.Page(), req.Limit()), nil
}
