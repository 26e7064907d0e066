package phone

import (
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/phonedex/internal/domain"
)

// OS is the phone operating system.
type OS string

// Supported operating systems.
const (
	Android OS = "Android"
	IOS     OS = "iOS"
)

// IsValid checks if the OS is one of the supported values.
func (o OS) IsValid() bool { return o == Android || o == IOS }

// Features are the hardware attributes shown in listings and facets.
type Features struct {
	Color      string `json:"color,omitempty"`
	ScreenSize string `json:"screenSize,omitempty"`
	Storage    string `json:"storage,omitempty"`
	Memory     string `json:"memory,omitempty"`
	Battery    string `json:"battery,omitempty"`
}

// Phone is a catalogue handset.
type Phone struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Brand       string    `json:"brand"`
	Image       string    `json:"image,omitempty"`
	OS          OS        `json:"os"`
	Features    Features  `json:"features"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary is the copy of a phone embedded in every offer for it.
type Summary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	OS    OS     `json:"os"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Normalize trims string fields and applies defaults.
// A missing slug is derived from the name.
func (p *Phone) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Description = strings.TrimSpace(p.Description)
	if p.OS == "" {
		p.OS = Android
	}
	if p.Slug == "" && p.Name != "" {
		p.Slug = Slugify(p.Name)
	}
}

// Validate checks required fields and enumerations.
func (p *Phone) Validate() error {
	switch {
	case p.Name == "":
		return domain.NewValidationError("name", "is required")
	case p.Slug == "":
		return domain.NewValidationError("slug", "is required")
	case p.Brand == "":
		return domain.NewValidationError("brand", "is required")
	case !p.OS.IsValid():
		return domain.NewValidationError("os", "must be Android or iOS")
	}
	return nil
}

// Summary returns the fields embedded into offers.
func (p *Phone) Summary() Summary {
	return Summary{
		ID:    p.ID,
		Name:  p.Name,
		Brand: p.Brand,
		OS:    p.OS,
		Slug:  p.Slug,
		Image: p.Image,
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-/]+`)

// Slugify lowercases s and replaces runs of unsupported characters with a dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "-and-")
	return nonSlugChars.ReplaceAllString(s, "-")
}
