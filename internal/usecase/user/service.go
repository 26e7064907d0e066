package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain"
	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
	"github.com/kailas-cloud/phonedex/internal/metrics"
)

// ErrTooManyAttempts is returned while a subject is locked out after repeated failures.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// Input is a new account as submitted.
type Input struct {
	Name     string
	Email    string
	Password string
	Role     domuser.Role
}

// Session is an authenticated user with a signed token.
type Session struct {
	User  domuser.Public `json:"user"`
	Token string         `json:"token"`
}

// Service handles accounts and logins.
type Service struct {
	repo        Repository
	hasher      Hasher
	tokens      TokenIssuer
	attempts    AttemptCounter
	maxAttempts int64
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// New creates a user service. attempts can be nil to disable login throttling.
func New(repo Repository, hasher Hasher, tokens TokenIssuer, attempts AttemptCounter, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		attempts:    attempts,
		maxAttempts: 5,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithMaxAttempts configures how many failures lock a subject out.
func (s *Service) WithMaxAttempts(n int) *Service {
	if n > 0 {
		s.maxAttempts = int64(n)
	}
	return s
}

// Register creates a regular account and signs a token for it.
func (s *Service) Register(ctx context.Context, in Input) (Session, error) {
	in.Role = domuser.Regular
	return s.Create(ctx, in)
}

// Create stores an account with any valid role and signs a token for it.
func (s *Service) Create(ctx context.Context, in Input) (Session, error) {
	u := domuser.User{
		ID:    s.newID(),
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
	}
	u.Normalize()
	if err := u.Validate(); err != nil {
		return Session{}, err
	}
	if err := domuser.ValidatePassword(in.Password); err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, err
	}
	u.PasswordHash = hash
	u.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, &u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.session(u)
}

// Login checks credentials and signs a token. Unknown emails and wrong
// passwords both report domain.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	subject := domuser.EmailKey(email)

	if s.attempts != nil {
		n, err := s.attempts.Count(ctx, subject)
		if err != nil {
			s.logger.Warn("Login attempt counter unavailable", zap.Error(err))
		} else if n >= s.maxAttempts {
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			return Session{}, ErrTooManyAttempts
		}
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, s.fail(ctx, subject)
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return Session{}, s.fail(ctx, subject)
		}
		return Session{}, err
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, subject); err != nil {
			s.logger.Warn("Login attempt reset failed", zap.Error(err))
		}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()

	return s.session(u)
}

// List returns every account in the admin listing shape.
func (s *Service) List(ctx context.Context) ([]domuser.Listed, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domuser.Listed, len(users))
	for i := range users {
		out[i] = users[i].Listed()
	}
	return out, nil
}

func (s *Service) session(u domuser.User) (Session, error) {
	token, err := s.tokens.Issue(u.Public())
	if err != nil {
		return Session{}, err
	}
	return Session{User: u.Public(), Token: token}, nil
}

// fail records a failed attempt and returns domain.ErrUnauthorized.
func (s *Service) fail(ctx context.Context, subject string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
	if s.attempts != nil {
		if err := s.attempts.Fail(ctx, subject); err != nil {
			s.logger.Warn("Login attempt not recorded", zap.Error(err))
		}
	}
	return domain.ErrUnauthorized
}
