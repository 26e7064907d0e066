package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Separators of the compact filter-query format: "field:v1,v2|field:v".
const (
	clauseSeparator = "|"
	fieldSeparator  = ":"
	valueSeparator  = ","
)

// Kind is the clause variant.
type Kind int

const (
	// Text matches any of a list of values.
	Text Kind = iota
	// Range matches a numeric interval.
	Range
)

func (k Kind) String() string {
	if k == Range {
		return "range"
	}
	return "text"
}

// Bounds is an inclusive numeric interval.
type Bounds struct {
	Low  int64
	High int64
}

// Clause is a single parsed filter: a text match or a numeric range on a document path.
type Clause struct {
	field  string
	path   string
	kind   Kind
	values []string
	bounds Bounds
}

// NewText creates a multi-value text clause. The path is derived from the field name.
func NewText(field string, values []string) (Clause, error) {
	if field == "" {
		return Clause{}, fmt.Errorf("filter field is required")
	}
	if len(values) == 0 {
		return Clause{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	path, kind := resolve(field)
	if kind != Text {
		return Clause{}, fmt.Errorf("field %q only supports range filters", field)
	}
	return Clause{field: field, path: path, kind: Text, values: values}, nil
}

// NewRange creates a range clause starting at low.
// The upper bound is always twice the lower one; callers rely on that shape.
func NewRange(field string, low int64) (Clause, error) {
	if field == "" {
		return Clause{}, fmt.Errorf("filter field is required")
	}
	path, kind := resolve(field)
	if kind != Range {
		return Clause{}, fmt.Errorf("field %q does not support range filters", field)
	}
	return Clause{field: field, path: path, kind: Range, bounds: Bounds{Low: low, High: low * 2}}, nil
}

// Field returns the field name as written in the filter query.
func (c Clause) Field() string { return c.field }

// Path returns the document path the clause applies to.
func (c Clause) Path() string { return c.path }

// Kind returns the clause variant.
func (c Clause) Kind() Kind { return c.kind }

// Values returns the accepted values of a text clause.
func (c Clause) Values() []string { return c.values }

// Bounds returns the interval of a range clause.
func (c Clause) Bounds() Bounds { return c.bounds }

// IsRange reports whether this is a range clause.
func (c Clause) IsRange() bool { return c.kind == Range }

// WithPath returns a copy of the clause targeting another document path.
func (c Clause) WithPath(path string) Clause {
	c.path = path
	return c
}

// String serializes the clause back into filter-query form.
func (c Clause) String() string {
	if c.kind == Range {
		return c.field + fieldSeparator + strconv.FormatInt(c.bounds.Low, 10)
	}
	return c.field + fieldSeparator + strings.Join(c.values, valueSeparator)
}

// ParseError reports a malformed filter-query clause.
type ParseError struct {
	Clause string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter clause %q: %s", e.Clause, e.Reason)
}

// Parse decodes a filter query such as "cost:10|brand:apple,samsung".
// An empty query yields no clauses.
func Parse(fq string) ([]Clause, error) {
	if fq == "" {
		return nil, nil
	}

	parts := strings.Split(fq, clauseSeparator)
	clauses := make([]Clause, 0, len(parts))

	for _, part := range parts {
		field, list, ok := strings.Cut(part, fieldSeparator)
		if !ok {
			return nil, &ParseError{Clause: part, Reason: "missing ':' separator"}
		}
		if field == "" {
			return nil, &ParseError{Clause: part, Reason: "empty field name"}
		}
		if list == "" {
			return nil, &ParseError{Clause: part, Reason: "no values"}
		}

		values := strings.Split(list, valueSeparator)

		if _, kind := resolve(field); kind == Range {
			// Only the first value counts for ranges.
			low, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64)
			if err != nil {
				return nil, &ParseError{Clause: part, Reason: fmt.Sprintf("%q is not an integer", values[0])}
			}
			c, err := NewRange(field, low)
			if err != nil {
				return nil, &ParseError{Clause: part, Reason: err.Error()}
			}
			clauses = append(clauses, c)
			continue
		}

		c, err := NewText(field, trimValues(values))
		if err != nil {
			return nil, &ParseError{Clause: part, Reason: err.Error()}
		}
		clauses = append(clauses, c)
	}

	return clauses, nil
}

// trimValues strips surrounding whitespace and drops blank values.
func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// resolve maps a filter field name onto its document path and clause kind.
func resolve(field string) (string, Kind) {
	switch field {
	case "cost", "contractLength":
		return "deal." + field, Range
	case "brand":
		return "phone.brand", Text
	case "color", "memory", "storage":
		return "features." + field, Text
	default:
		return field, Text
	}
}
