package health

import "context"

// Pinger checks a backend's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether a search index exists.
type IndexChecker interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}
