package option

import (
	"context"

	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
)

// Repository defines the storage contract for options.
type Repository interface {
	Create(ctx context.Context, o *domoption.Option) error
	Get(ctx context.Context, id string) (domoption.Option, error)
	ByName(ctx context.Context, name string, offset, limit int) ([]domoption.Option, int, error)
	Update(ctx context.Context, id string, p patch.Patch, prepare func(*domoption.Option) error) (domoption.Option, error)
	Delete(ctx context.Context, id string) error
}
