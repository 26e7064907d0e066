package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/phonedex/internal/domain"
)

// Issue is one schema violation.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every violation of a request body. It unwraps to domain.ErrValidation.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + ": " + is.Message
	}
	return domain.ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return domain.ErrValidation }

// Validator checks request bodies against precompiled JSON schemas.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the request body schemas.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(sources))}
	for name, src := range sources {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

// Validate checks a raw JSON body against the named schema.
func (v *Validator) Validate(schema string, body []byte) error {
	s, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &Error{Issues: []Issue{{Field: "body", Message: "malformed JSON"}}}
	}
	if res.Valid() {
		return nil
	}

	issues := make([]Issue, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			field = requiredField(field, re.Details())
		}
		issues = append(issues, Issue{Field: field, Message: re.Description()})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return &Error{Issues: issues}
}

// requiredField names the missing property, qualified by its parent object.
func requiredField(field string, details gojsonschema.ErrorDetails) string {
	p, ok := details["property"].(string)
	if !ok || strings.HasSuffix(field, p) {
		return field
	}
	if field == "" || field == "(root)" {
		return p
	}
	return field + "." + p
}
