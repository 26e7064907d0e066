package chi

import (
	"context"

	"github.com/kailas-cloud/phonedex/internal/auth"
	dombatch "github.com/kailas-cloud/phonedex/internal/domain/batch"
	"github.com/kailas-cloud/phonedex/internal/domain/listing"
	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
	healthuc "github.com/kailas-cloud/phonedex/internal/usecase/health"
	offeruc "github.com/kailas-cloud/phonedex/internal/usecase/offer"
	searchuc "github.com/kailas-cloud/phonedex/internal/usecase/search"
	useruc "github.com/kailas-cloud/phonedex/internal/usecase/user"
)

// PhoneService is the phone catalogue as seen by the HTTP layer.
type PhoneService interface {
	Create(ctx context.Context, p *domphone.Phone) (domphone.Phone, error)
	Get(ctx context.Context, id string) (domphone.Phone, error)
	List(ctx context.Context) ([]domphone.Phone, error)
	Update(ctx context.Context, id string, set map[string]any) (domphone.Phone, error)
}

// OfferService is the offer catalogue as seen by the HTTP layer.
type OfferService interface {
	Get(ctx context.Context, id string) (domoffer.Detail, domphone.Summary, error)
	ByPhoneSlug(ctx context.Context, slug string) (offeruc.PhoneOffers[domoffer.Offer], error)
	ByPhoneID(ctx context.Context, phoneID string) (offeruc.PhoneOffers[domoffer.Detail], error)
	List(ctx context.Context, f domoffer.ListFilter, page, limit int) (listing.Page[domoffer.Offer], error)
	Add(ctx context.Context, in offeruc.Input) (domoffer.Offer, error)
	AddBulk(ctx context.Context, items []offeruc.Input) []dombatch.Result
	Update(ctx context.Context, id string, set map[string]any) (domoffer.Offer, error)
	Delete(ctx context.Context, id string) error
}

// OptionService is the option store as seen by the HTTP layer.
type OptionService interface {
	Create(ctx context.Context, o *domoption.Option) (domoption.Option, error)
	Get(ctx context.Context, id string) (domoption.Option, error)
	Short(ctx context.Context, name string) ([]domoption.Option, error)
	Page(ctx context.Context, name string, page int) (listing.Page[domoption.Option], error)
	Update(ctx context.Context, id string, set map[string]any) (domoption.Option, error)
	Delete(ctx context.Context, id string) error
}

// UserService handles accounts and logins.
type UserService interface {
	Register(ctx context.Context, in useruc.Input) (useruc.Session, error)
	Login(ctx context.Context, email, password string) (useruc.Session, error)
	List(ctx context.Context) ([]domuser.Listed, error)
}

// SearchService runs faceted searches.
type SearchService interface {
	Phones(ctx context.Context, q searchuc.Query) (result.Page, error)
	Offers(ctx context.Context, q searchuc.Query) (result.Page, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// BodyValidator checks a raw request body against a named schema.
type BodyValidator interface {
	Validate(schema string, body []byte) error
}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}
