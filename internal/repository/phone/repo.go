package phone

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
)

// kvStore is the consumer interface for slug reservations (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/phone.Repository.
type Repo struct {
	docs *docstore.Docs[domphone.Phone]
	kv   kvStore
}

// New creates a phone repository.
func New(docs *docstore.Docs[domphone.Phone], kv kvStore) *Repo {
	return &Repo{docs: docs, kv: kv}
}

// Create stores a new phone. The slug is reserved first so two phones never share it.
func (r *Repo) Create(ctx context.Context, p *domphone.Phone) error {
	if err := r.reserveSlug(ctx, p.Slug, p.ID); err != nil {
		return err
	}
	if err := r.docs.Put(ctx, p.ID, p); err != nil {
		r.releaseSlug(ctx, p.Slug)
		return err
	}
	return nil
}

// Get returns a phone by id.
func (r *Repo) Get(ctx context.Context, id string) (domphone.Phone, error) {
	return r.docs.Get(ctx, id)
}

// GetBySlug resolves the slug reservation and loads the phone.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domphone.Phone, error) {
	id, err := r.kv.Get(ctx, slugKey(slug))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domphone.Phone{}, domain.ErrNotFound
		}
		return domphone.Phone{}, fmt.Errorf("get slug %s: %w", slug, err)
	}
	return r.docs.Get(ctx, string(id))
}

// List returns the first limit phones.
func (r *Repo) List(ctx context.Context, limit int) ([]domphone.Phone, error) {
	docs, _, err := r.docs.Find(ctx, "*", 0, limit)
	return docs, err
}

// Update applies a partial update. prepare normalizes and validates the merged phone.
// A changed slug moves its reservation.
func (r *Repo) Update(
	ctx context.Context, id string, p patch.Patch, prepare func(*domphone.Phone) error,
) (domphone.Phone, error) {
	before, after, err := r.docs.Merge(ctx, id, p)
	if err != nil {
		return domphone.Phone{}, err
	}
	after.ID = id
	if err := prepare(&after); err != nil {
		return domphone.Phone{}, err
	}

	moved := after.Slug != before.Slug
	if moved {
		if err := r.reserveSlug(ctx, after.Slug, id); err != nil {
			return domphone.Phone{}, err
		}
	}

	if err := r.docs.Put(ctx, id, &after); err != nil {
		if moved {
			r.releaseSlug(ctx, after.Slug)
		}
		return domphone.Phone{}, err
	}
	if moved {
		r.releaseSlug(ctx, before.Slug)
	}
	return after, nil
}

func (r *Repo) reserveSlug(ctx context.Context, slug, id string) error {
	ok, err := r.kv.SetNX(ctx, slugKey(slug), []byte(id))
	if err != nil {
		return fmt.Errorf("reserve slug %s: %w", slug, err)
	}
	if !ok {
		return fmt.Errorf("slug %q: %w", slug, domain.ErrAlreadyExists)
	}
	return nil
}

// releaseSlug is best effort; a stale reservation only blocks reuse of the slug.
func (r *Repo) releaseSlug(ctx context.Context, slug string) {
	_ = r.kv.Del(ctx, slugKey(slug))
}

func slugKey(slug string) string {
	return catalog.UniqueKey(catalog.Phones, "slug", slug)
}
