package user

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
)

// store is the consumer interface for users (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	ScanHashes(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/user.Repository.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a user: reserve the email, then HSET the profile.
// On HSET failure the reservation is rolled back.
func (r *Repo) Create(ctx context.Context, u *domuser.User) error {
	emailKey := emailKey(u.Email)

	ok, err := r.store.SetNX(ctx, emailKey, []byte(u.ID))
	if err != nil {
		return fmt.Errorf("reserve email: %w", err)
	}
	if !ok {
		return fmt.Errorf("email %q: %w", u.Email, domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, catalog.Key(catalog.Users, u.ID), userToHash(u)); err != nil {
		cleanupErr := r.store.Del(ctx, emailKey)
		return errors.Join(fmt.Errorf("hset user %s: %w", u.ID, err), cleanupErr)
	}
	return nil
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, catalog.Key(catalog.Users, id))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user %s: %w", id, err)
	}
	if len(m) == 0 {
		return domuser.User{}, domain.ErrNotFound
	}
	return userFromHash(m)
}

// GetByEmail resolves the email reservation and loads the user. Emails match case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	id, err := r.store.Get(ctx, emailKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrNotFound
		}
		return domuser.User{}, fmt.Errorf("get email: %w", err)
	}
	return r.Get(ctx, string(id))
}

// List returns all users sorted by creation time.
func (r *Repo) List(ctx context.Context) ([]domuser.User, error) {
	keys, err := r.store.ScanHashes(ctx, catalog.Prefix(catalog.Users))
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if len(keys) == 0 {
		return []domuser.User{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi users: %w", err)
	}

	users := make([]domuser.User, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		u, err := userFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse user %s: %w", keys[i], err)
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func emailKey(email string) string {
	return catalog.UniqueKey(catalog.Users, "email", domuser.EmailKey(email))
}
