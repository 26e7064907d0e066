package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/phonedex/internal/domain"
	dombatch "github.com/kailas-cloud/phonedex/internal/domain/batch"
	"github.com/kailas-cloud/phonedex/internal/domain/listing"
	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// Listing defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxBatchSize    = 500
)

// ErrPhoneNotFound is returned when an offer names a phone that does not exist.
var ErrPhoneNotFound = errors.New("phone not found")

// protectedFields cannot be changed by a partial update.
var protectedFields = []string{"_id", "phone", "createdAt", "updatedAt"}

// Input is a new offer as submitted: the phone is referenced by id.
type Input struct {
	PhoneID string
	Offer   domoffer.Offer
}

// PhoneOffers is a phone with its offers.
type PhoneOffers[T any] struct {
	Phone  domphone.Phone `json:"phone"`
	Offers []T            `json:"offers"`
}

// Service handles the offer catalogue.
type Service struct {
	repo            Repository
	phones          PhoneReader
	defaultPageSize int
	maxPageSize     int
	maxBatchSize    int
	now             func() time.Time
	newID           func() string
}

// New creates an offer service.
func New(repo Repository, phones PhoneReader) *Service {
	return &Service{
		repo:            repo,
		phones:          phones,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
		maxBatchSize:    MaxBatchSize,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// WithPagination configures listing page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithMaxBatchSize configures the bulk insert limit.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Get returns an offer and the phone it belongs to.
func (s *Service) Get(ctx context.Context, id string) (domoffer.Detail, domphone.Summary, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domoffer.Detail{}, domphone.Summary{}, fmt.Errorf("get offer %s: %w", id, err)
	}
	return o.Detail(), o.Phone, nil
}

// ByPhoneSlug returns a phone and every offer for it.
func (s *Service) ByPhoneSlug(ctx context.Context, slug string) (PhoneOffers[domoffer.Offer], error) {
	p, err := s.phones.GetBySlug(ctx, slug)
	if err != nil {
		return PhoneOffers[domoffer.Offer]{}, fmt.Errorf("get phone by slug %s: %w", slug, err)
	}
	offers, err := s.repo.ByPhoneSlug(ctx, slug)
	if err != nil {
		return PhoneOffers[domoffer.Offer]{}, fmt.Errorf("offers for %s: %w", slug, err)
	}
	if offers == nil {
		offers = []domoffer.Offer{}
	}
	return PhoneOffers[domoffer.Offer]{Phone: p, Offers: offers}, nil
}

// ByPhoneID returns a phone and its offers without the embedded summary.
func (s *Service) ByPhoneID(ctx context.Context, phoneID string) (PhoneOffers[domoffer.Detail], error) {
	p, err := s.phones.Get(ctx, phoneID)
	if err != nil {
		return PhoneOffers[domoffer.Detail]{}, fmt.Errorf("get phone %s: %w", phoneID, err)
	}
	offers, err := s.repo.ByPhoneID(ctx, phoneID)
	if err != nil {
		return PhoneOffers[domoffer.Detail]{}, fmt.Errorf("offers for %s: %w", phoneID, err)
	}
	details := make([]domoffer.Detail, len(offers))
	for i := range offers {
		details[i] = offers[i].Detail()
	}
	return PhoneOffers[domoffer.Detail]{Phone: p, Offers: details}, nil
}

// List returns one page of offers matching the filter.
// Non-positive pages start at 1; the limit is clamped to the configured range.
func (s *Service) List(ctx context.Context, f domoffer.ListFilter, page, limit int) (listing.Page[domoffer.Offer], error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	offers, total, err := s.repo.List(ctx, f, listing.Offset(page, limit), limit)
	if err != nil {
		return listing.Page[domoffer.Offer]{}, fmt.Errorf("list offers: %w", err)
	}
	return listing.New(offers, total, page, limit), nil
}

// Add resolves the phone and stores a new offer.
func (s *Service) Add(ctx context.Context, in Input) (domoffer.Offer, error) {
	o, err := s.prepare(ctx, in)
	if err != nil {
		return domoffer.Offer{}, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return domoffer.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return *o, nil
}

// AddBulk stores many offers. Items that fail validation or phone resolution are
// reported individually; the rest are written in one round trip.
func (s *Service) AddBulk(ctx context.Context, items []Input) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxBatchSize {
		for i := range items {
			results[i] = dombatch.NewError(i, domain.NewValidationError(
				"body", fmt.Sprintf("batch size exceeds %d", s.maxBatchSize)))
		}
		return results
	}

	phones := make(map[string]domphone.Summary)
	ready := make([]*domoffer.Offer, 0, len(items))
	indexes := make([]int, 0, len(items))

	for i, in := range items {
		o, err := s.prepareWith(ctx, in, phones)
		if err != nil {
			results[i] = dombatch.NewError(i, err)
			continue
		}
		ready = append(ready, o)
		indexes = append(indexes, i)
	}

	if len(ready) == 0 {
		return results
	}

	if err := s.repo.CreateMany(ctx, ready); err != nil {
		for _, i := range indexes {
			results[i] = dombatch.NewError(i, fmt.Errorf("create offers: %w", err))
		}
		return results
	}
	for j, i := range indexes {
		results[i] = dombatch.NewOK(i, ready[j].ID)
	}
	return results
}

// Update applies a $set-style partial update.
func (s *Service) Update(ctx context.Context, id string, set map[string]any) (domoffer.Offer, error) {
	p, err := patch.New(set, protectedFields...)
	if err != nil {
		return domoffer.Offer{}, domain.NewValidationError("body", err.Error())
	}

	updated, err := s.repo.Update(ctx, id, p, func(o *domoffer.Offer) error {
		o.Normalize()
		if err := o.Validate(); err != nil {
			return err
		}
		o.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return domoffer.Offer{}, fmt.Errorf("update offer %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes an offer.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer %s: %w", id, err)
	}
	return nil
}

func (s *Service) prepare(ctx context.Context, in Input) (*domoffer.Offer, error) {
	return s.prepareWith(ctx, in, nil)
}

// prepareWith resolves the phone summary (memoized in phones when non-nil),
// then normalizes, validates and stamps the offer.
func (s *Service) prepareWith(ctx context.Context, in Input, phones map[string]domphone.Summary) (*domoffer.Offer, error) {
	if in.PhoneID == "" {
		return nil, domain.NewValidationError("phone_id", "is required")
	}

	summary, ok := phones[in.PhoneID]
	if !ok {
		p, err := s.phones.Get(ctx, in.PhoneID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrPhoneNotFound
			}
			return nil, fmt.Errorf("get phone %s: %w", in.PhoneID, err)
		}
		summary = p.Summary()
		if phones != nil {
			phones[in.PhoneID] = summary
		}
	}

	o := in.Offer
	o.ID = s.newID()
	o.Phone = summary
	o.Normalize()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	return &o, nil
}
