package offer

import (
	"context"

	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// Repository defines the storage contract for offers.
type Repository interface {
	Create(ctx context.Context, o *domoffer.Offer) error
	CreateMany(ctx context.Context, offers []*domoffer.Offer) error
	Get(ctx context.Context, id string) (domoffer.Offer, error)
	ByPhoneSlug(ctx context.Context, slug string) ([]domoffer.Offer, error)
	ByPhoneID(ctx context.Context, phoneID string) ([]domoffer.Offer, error)
	List(ctx context.Context, f domoffer.ListFilter, offset, limit int) ([]domoffer.Offer, int, error)
	Update(ctx context.Context, id string, p patch.Patch, prepare func(*domoffer.Offer) error) (domoffer.Offer, error)
	Delete(ctx context.Context, id string) error
}

// PhoneReader resolves the phone an offer belongs to.
type PhoneReader interface {
	Get(ctx context.Context, id string) (domphone.Phone, error)
	GetBySlug(ctx context.Context, slug string) (domphone.Phone, error)
}
