package attempts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "login_attempts:"

// store is the consumer interface for attempt counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Del(ctx context.Context, key string) error
}

// Store counts failed logins per subject inside a fixed window.
type Store struct {
	store  store
	window time.Duration
}

// New creates an attempt counter. The window starts at the first failure.
func New(s store, window time.Duration) *Store {
	return &Store{store: s, window: window}
}

// Fail records one failed attempt. The window opens at the first failure
// and is not extended by later ones.
func (s *Store) Fail(ctx context.Context, subject string) error {
	key := keyPrefix + subject
	if _, err := s.store.IncrWindow(ctx, key, s.window); err != nil {
		return fmt.Errorf("attempts incr %s: %w", key, err)
	}
	return nil
}

// Count returns the failures recorded in the current window. Returns 0 if none.
func (s *Store) Count(ctx context.Context, subject string) (int64, error) {
	key := keyPrefix + subject
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("attempts GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("attempts GET %s parse: %w", key, err)
	}
	return val, nil
}

// Reset clears the counter after a successful login.
func (s *Store) Reset(ctx context.Context, subject string) error {
	key := keyPrefix + subject
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("attempts DEL %s: %w", key, err)
	}
	return nil
}
