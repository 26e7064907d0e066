package option

import (
	"context"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/option"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
)

// Repo implements usecase/option.Repository.
type Repo struct {
	docs *docstore.Docs[option.Option]
}

// New creates an option repository.
func New(docs *docstore.Docs[option.Option]) *Repo {
	return &Repo{docs: docs}
}

// Create stores a new option.
func (r *Repo) Create(ctx context.Context, o *option.Option) error {
	return r.docs.Put(ctx, o.ID, o)
}

// Get returns an option by id.
func (r *Repo) Get(ctx context.Context, id string) (option.Option, error) {
	return r.docs.Get(ctx, id)
}

// ByName returns one page of options with the given name and the total count.
func (r *Repo) ByName(ctx context.Context, name string, offset, limit int) ([]option.Option, int, error) {
	return r.docs.Find(ctx, db.TagQuery("name", name), offset, limit)
}

// Update applies a partial update. prepare normalizes and validates the merged option.
func (r *Repo) Update(
	ctx context.Context, id string, p patch.Patch, prepare func(*option.Option) error,
) (option.Option, error) {
	_, after, err := r.docs.Merge(ctx, id, p)
	if err != nil {
		return option.Option{}, err
	}
	after.ID = id
	if err := prepare(&after); err != nil {
		return option.Option{}, err
	}
	if err := r.docs.Put(ctx, id, &after); err != nil {
		return option.Option{}, err
	}
	return after, nil
}

// Delete removes an option.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}
