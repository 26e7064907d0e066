package phone

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// DefaultListLimit is the number of phones returned by List.
const DefaultListLimit = 5

// protectedFields cannot be changed by a partial update.
var protectedFields = []string{"_id", "createdAt", "updatedAt"}

// summaryFields are the phone fields copied into offers.
var summaryFields = []string{"name", "brand", "os", "slug", "image"}

// Service handles the phone catalogue.
type Service struct {
	repo      Repository
	offers    OfferRefresher
	logger    *zap.Logger
	listLimit int
	now       func() time.Time
	newID     func() string
}

// New creates a phone service. offers can be nil.
func New(repo Repository, offers OfferRefresher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		offers:    offers,
		logger:    logger,
		listLimit: DefaultListLimit,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithListLimit configures the size of the phone listing.
func (s *Service) WithListLimit(limit int) *Service {
	if limit > 0 {
		s.listLimit = limit
	}
	return s
}

// Create assigns an id and timestamps, validates and stores a phone.
func (s *Service) Create(ctx context.Context, p *domphone.Phone) (domphone.Phone, error) {
	p.ID = s.newID()
	p.Normalize()
	if err := p.Validate(); err != nil {
		return domphone.Phone{}, err
	}

	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return domphone.Phone{}, fmt.Errorf("create phone: %w", err)
	}
	return *p, nil
}

// Get returns a phone by id.
func (s *Service) Get(ctx context.Context, id string) (domphone.Phone, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domphone.Phone{}, fmt.Errorf("get phone %s: %w", id, err)
	}
	return p, nil
}

// GetBySlug returns a phone by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (domphone.Phone, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domphone.Phone{}, fmt.Errorf("get phone by slug %s: %w", slug, err)
	}
	return p, nil
}

// List returns the first phones of the catalogue.
func (s *Service) List(ctx context.Context) ([]domphone.Phone, error) {
	phones, err := s.repo.List(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	if phones == nil {
		phones = []domphone.Phone{}
	}
	return phones, nil
}

// Update applies a $set-style partial update. When a field embedded in offers
// changes, every offer for the phone gets the new summary.
func (s *Service) Update(ctx context.Context, id string, set map[string]any) (domphone.Phone, error) {
	p, err := patch.New(set, protectedFields...)
	if err != nil {
		return domphone.Phone{}, domain.NewValidationError("body", err.Error())
	}

	updated, err := s.repo.Update(ctx, id, p, func(ph *domphone.Phone) error {
		ph.Normalize()
		if err := ph.Validate(); err != nil {
			return err
		}
		ph.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return domphone.Phone{}, fmt.Errorf("update phone %s: %w", id, err)
	}

	if s.offers != nil && touchesAny(p, summaryFields) {
		n, err := s.offers.RefreshPhone(ctx, updated.Summary())
		if err != nil {
			// The phone is stored; stale summaries are repaired by the next update.
			s.logger.Warn("Offer summary refresh failed",
				zap.String("phone_id", id),
				zap.Error(err),
			)
		} else {
			s.logger.Debug("Offer summaries refreshed",
				zap.String("phone_id", id),
				zap.Int("offers", n),
			)
		}
	}

	return updated, nil
}

func touchesAny(p patch.Patch, fields []string) bool {
	for _, f := range fields {
		if p.Touches(f) {
			return true
		}
	}
	return false
}
