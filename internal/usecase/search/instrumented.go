package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain/search/request"
	"github.com/kailas-cloud/phonedex/internal/domain/search/result"
	"github.com/kailas-cloud/phonedex/internal/metrics"
)

// InstrumentedRepository wraps a Repository with metrics and logging.
type InstrumentedRepository struct {
	inner   Repository
	backend string
	logger  *zap.Logger
}

// NewInstrumentedRepository wraps repo. backend labels the metrics ("redis", "elasticsearch").
func NewInstrumentedRepository(inner Repository, backend string, logger *zap.Logger) *InstrumentedRepository {
	return &InstrumentedRepository{inner: inner, backend: backend, logger: logger}
}

// Search delegates to the inner repository and records the outcome.
func (r *InstrumentedRepository) Search(ctx context.Context, req *request.Request) (result.Raw, error) {
	start := time.Now()

	raw, err := r.inner.Search(ctx, req)

	duration := time.Since(start)
	entity := string(req.Entity())

	metrics.SearchRequestDuration.WithLabelValues(entity, r.backend).Observe(duration.Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(entity, r.backend, "error").Inc()
		r.logger.Error("Search request failed",
			zap.String("entity", entity),
			zap.String("backend", r.backend),
			zap.Strings("query", req.Query()),
			zap.Int("filters", len(req.Filters())),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.Raw{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(entity, r.backend, "ok").Inc()

	var total int64
	if len(raw.Meta) > 0 && raw.Meta[0].Count != nil {
		total = raw.Meta[0].Count.LowerBound
	}
	metrics.SearchResultsTotal.WithLabelValues(entity).Observe(float64(total))

	r.logger.Debug("Search request completed",
		zap.String("entity", entity),
		zap.String("backend", r.backend),
		zap.Strings("query", req.Query()),
		zap.Int("page", req.Page()),
		zap.Int64("total", total),
		zap.Duration("duration", duration),
	)

	return raw, nil
}
