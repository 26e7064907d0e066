package patch

import (
	"fmt"
	"strings"
)

// Patch is a partial document update with $set semantics.
// Keys are top-level field names or dotted paths into nested objects.
type Patch struct {
	set map[string]any
}

// New validates and creates a Patch. At least one field must be provided
// and none of the protected fields may be touched.
func New(set map[string]any, protected ...string) (Patch, error) {
	if len(set) == 0 {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	for key := range set {
		if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") || strings.Contains(key, "..") {
			return Patch{}, fmt.Errorf("invalid field path %q", key)
		}
		root, _, _ := strings.Cut(key, ".")
		for _, p := range protected {
			if root == p {
				return Patch{}, fmt.Errorf("field %q cannot be updated", p)
			}
		}
	}
	return Patch{set: set}, nil
}

// Fields returns the paths being set.
func (p Patch) Fields() []string {
	fields := make([]string, 0, len(p.set))
	for k := range p.set {
		fields = append(fields, k)
	}
	return fields
}

// Touches reports whether the patch sets the given top-level field or anything below it.
func (p Patch) Touches(field string) bool {
	for k := range p.set {
		if k == field || strings.HasPrefix(k, field+".") {
			return true
		}
	}
	return false
}

// Apply writes the patch into doc, creating intermediate objects for dotted paths.
// A path crossing a non-object value replaces that value with an object.
func (p Patch) Apply(doc map[string]any) map[string]any {
	if doc == nil {
		doc = map[string]any{}
	}
	for key, value := range p.set {
		parts := strings.Split(key, ".")
		node := doc
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return doc
}
