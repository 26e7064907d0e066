package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      Pinger
	search  Pinger
	indexes IndexChecker
	names   []string
}

// New creates a Service. search is the dedicated search backend and can be nil
// when searches run on the document store.
func New(db Pinger, search Pinger) *Service {
	return &Service{db: db, search: search}
}

// WithIndexes adds a check that every named search index exists.
func (s *Service) WithIndexes(c IndexChecker, names ...string) *Service {
	s.indexes = c
	s.names = names
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.search != nil {
		if err := s.search.Ping(ctx); err != nil {
			checks["search"] = CheckError
		} else {
			checks["search"] = CheckOK
		}
	}

	if s.indexes != nil {
		checks["indexes"] = s.checkIndexes(ctx)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) checkIndexes(ctx context.Context) CheckResult {
	for _, name := range s.names {
		ok, err := s.indexes.IndexExists(ctx, name)
		if err != nil || !ok {
			return CheckError
		}
	}
	return CheckOK
}
