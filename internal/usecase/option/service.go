package option

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/listing"
	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
)

// Page sizes of the name lookups.
const (
	ShortListSize = 5
	PageSize      = 12
)

// Service handles named front-end options.
type Service struct {
	repo  Repository
	newID func() string
}

// New creates an option service.
func New(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// Create validates and stores an option.
func (s *Service) Create(ctx context.Context, o *domoption.Option) (domoption.Option, error) {
	o.ID = s.newID()
	o.Normalize()
	if err := o.Validate(); err != nil {
		return domoption.Option{}, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return domoption.Option{}, fmt.Errorf("create option: %w", err)
	}
	return *o, nil
}

// Get returns an option by id.
func (s *Service) Get(ctx context.Context, id string) (domoption.Option, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domoption.Option{}, fmt.Errorf("get option %s: %w", id, err)
	}
	return o, nil
}

// Short returns the first options with exactly this name.
func (s *Service) Short(ctx context.Context, name string) ([]domoption.Option, error) {
	docs, _, err := s.repo.ByName(ctx, name, 0, ShortListSize)
	if err != nil {
		return nil, fmt.Errorf("options %s: %w", name, err)
	}
	if docs == nil {
		docs = []domoption.Option{}
	}
	return docs, nil
}

// Page returns one page of options with this name. Pages below 1 read the first page.
func (s *Service) Page(ctx context.Context, name string, page int) (listing.Page[domoption.Option], error) {
	if page < 1 {
		page = 1
	}
	docs, total, err := s.repo.ByName(ctx, name, listing.Offset(page, PageSize), PageSize)
	if err != nil {
		return listing.Page[domoption.Option]{}, fmt.Errorf("options %s page %d: %w", name, page, err)
	}
	return listing.New(docs, total, page, PageSize), nil
}

// Update applies a $set-style partial update.
func (s *Service) Update(ctx context.Context, id string, set map[string]any) (domoption.Option, error) {
	p, err := patch.New(set, "_id")
	if err != nil {
		return domoption.Option{}, domain.NewValidationError("body", err.Error())
	}
	updated, err := s.repo.Update(ctx, id, p, func(o *domoption.Option) error {
		o.Normalize()
		return o.Validate()
	})
	if err != nil {
		return domoption.Option{}, fmt.Errorf("update option %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes an option.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete option %s: %w", id, err)
	}
	return nil
}
