package option

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/phonedex/internal/domain"
)

// Option is a named configuration value used by the front-end (menus, filter labels).
type Option struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Normalize trims the name.
func (o *Option) Normalize() {
	o.Name = strings.TrimSpace(o.Name)
}

// Validate checks required fields.
func (o *Option) Validate() error {
	if o.Name == "" {
		return domain.NewValidationError("name", "Name is required")
	}
	v := strings.TrimSpace(string(o.Value))
	if v == "" || v == "null" {
		return domain.NewValidationError("value", "value is required")
	}
	if !json.Valid(o.Value) {
		return domain.NewValidationError("value", "must be valid JSON")
	}
	return nil
}
