package user

import (
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/phonedex/internal/domain"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Role grants access levels.
type Role string

// Roles.
const (
	Admin   Role = "admin"
	Regular Role = "user"
)

// IsValid checks if the role is one of the supported values.
func (r Role) IsValid() bool { return r == Admin || r == Regular }

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// User is an account. PasswordHash is never serialized to clients.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public is the user shape returned with tokens.
type Public struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Listed is the user shape returned by the admin listing.
type Listed struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims fields and applies the default role.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = Regular
	}
}

// Validate checks required fields, the email format and the role.
func (u *User) Validate() error {
	switch {
	case u.Name == "":
		return domain.NewValidationError("name", "Name is required")
	case u.Email == "":
		return domain.NewValidationError("email", "Email is required")
	case !ValidEmail(u.Email):
		return domain.NewValidationError("email", "Please fill a valid email address")
	case !u.Role.IsValid():
		return domain.NewValidationError("role", "must be admin or user")
	}
	return nil
}

// Public returns the client-safe view of the user.
func (u *User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Listed returns the admin listing view of the user.
func (u *User) Listed() Listed {
	return Listed{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRegex.MatchString(s) }

// ValidatePassword checks a plaintext password before hashing.
func ValidatePassword(password string) error {
	if password == "" {
		return domain.NewValidationError("password", "Invalid Password")
	}
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", "password must be 6 chars or more")
	}
	return nil
}

// EmailKey is the case-insensitive uniqueness key of an email address.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
