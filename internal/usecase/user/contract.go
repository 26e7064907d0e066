package user

import (
	"context"

	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
)

// Repository defines the storage contract for users.
type Repository interface {
	Create(ctx context.Context, u *domuser.User) error
	GetByEmail(ctx context.Context, email string) (domuser.User, error)
	List(ctx context.Context) ([]domuser.User, error)
}

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(u domuser.Public) (string, error)
}

// AttemptCounter tracks failed logins per subject.
type AttemptCounter interface {
	Fail(ctx context.Context, subject string) error
	Count(ctx context.Context, subject string) (int64, error)
	Reset(ctx context.Context, subject string) error
}
