package search

import (
	"context"

	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
)

// Repository runs an assembled faceted search against the search backend.
type Repository interface {
	Search(ctx context.Context, req *request.Request) (result.Raw, error)
}
