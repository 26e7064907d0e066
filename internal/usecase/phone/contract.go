package phone

import (
	"context"

	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
)

// Repository defines the storage contract for phones.
type Repository interface {
	Create(ctx context.Context, p *domphone.Phone) error
	Get(ctx context.Context, id string) (domphone.Phone, error)
	GetBySlug(ctx context.Context, slug string) (domphone.Phone, error)
	List(ctx context.Context, limit int) ([]domphone.Phone, error)
	Update(ctx context.Context, id string, p patch.Patch, prepare func(*domphone.Phone) error) (domphone.Phone, error)
}

// OfferRefresher rewrites the phone summary embedded in offers.
type OfferRefresher interface {
	RefreshPhone(ctx context.Context, s domphone.Summary) (int, error)
}
