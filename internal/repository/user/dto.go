package user

import (
	"fmt"
	"time"

	domuser "github.com/kailas-cloud/phonedex/internal/domain/user"
)

// userToHash converts a user to a map for HSET.
func userToHash(u *domuser.User) map[string]string {
	return map[string]string{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       string(u.Role),
		"password":   u.PasswordHash,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// userFromHash hydrates a user from an HGETALL result map.
func userFromHash(m map[string]string) (domuser.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return domuser.User{}, fmt.Errorf("invalid created_at: %w", err)
	}
	return domuser.User{
		ID:           m["id"],
		Name:         m["name"],
		Email:        m["email"],
		Role:         domuser.Role(m["role"]),
		PasswordHash: m["password"],
		CreatedAt:    createdAt,
	}, nil
}
