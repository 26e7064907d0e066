package offer

import (
	"context"
	"strings"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/offer"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	"github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
)

// listQuery renders the listing filter as an FT query.
func listQuery(f offer.ListFilter) string {
	var parts []string
	add := func(path, value string) {
		if value != "" {
			parts = append(parts, db.TagQuery(path, value))
		}
	}
	add("dealType", f.DealType)
	add("phone.brand", f.Brand)
	add("network", f.Network)
	add("phone._id", f.PhoneID)

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// Repo implements usecase/offer.Repository.
type Repo struct {
	docs *docstore.Docs[offer.Offer]
}

// New creates an offer repository.
func New(docs *docstore.Docs[offer.Offer]) *Repo {
	return &Repo{docs: docs}
}

// Create stores a new offer.
func (r *Repo) Create(ctx context.Context, o *offer.Offer) error {
	return r.docs.Put(ctx, o.ID, o)
}

// CreateMany stores offers in one round trip.
func (r *Repo) CreateMany(ctx context.Context, offers []*offer.Offer) error {
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return r.docs.PutMany(ctx, ids, offers)
}

// Get returns an offer by id.
func (r *Repo) Get(ctx context.Context, id string) (offer.Offer, error) {
	return r.docs.Get(ctx, id)
}

// ByPhoneSlug returns every offer for a phone slug.
func (r *Repo) ByPhoneSlug(ctx context.Context, slug string) ([]offer.Offer, error) {
	return r.docs.FindAll(ctx, db.TagQuery("phone.slug", slug))
}

// ByPhoneID returns every offer for a phone id.
func (r *Repo) ByPhoneID(ctx context.Context, phoneID string) ([]offer.Offer, error) {
	return r.docs.FindAll(ctx, db.TagQuery("phone._id", phoneID))
}

// List returns one page of offers and the total match count.
func (r *Repo) List(ctx context.Context, f offer.ListFilter, offset, limit int) ([]offer.Offer, int, error) {
	return r.docs.Find(ctx, listQuery(f), offset, limit)
}

// Update applies a partial update. prepare normalizes and validates the merged offer.
func (r *Repo) Update(
	ctx context.Context, id string, p patch.Patch, prepare func(*offer.Offer) error,
) (offer.Offer, error) {
	_, after, err := r.docs.Merge(ctx, id, p)
	if err != nil {
		return offer.Offer{}, err
	}
	after.ID = id
	if err := prepare(&after); err != nil {
		return offer.Offer{}, err
	}
	if err := r.docs.Put(ctx, id, &after); err != nil {
		return offer.Offer{}, err
	}
	return after, nil
}

// Delete removes an offer.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

// RefreshPhone rewrites the embedded phone summary of every offer for that phone.
// Returns the number of offers rewritten.
func (r *Repo) RefreshPhone(ctx context.Context, s phone.Summary) (int, error) {
	offers, err := r.ByPhoneID(ctx, s.ID)
	if err != nil {
		return 0, err
	}
	if len(offers) == 0 {
		return 0, nil
	}

	updated := make([]*offer.Offer, len(offers))
	for i := range offers {
		offers[i].Phone = s
		updated[i] = &offers[i]
	}
	if err := r.CreateMany(ctx, updated); err != nil {
		return 0, err
	}
	return len(updated), nil
}
