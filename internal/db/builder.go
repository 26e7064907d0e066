package db

import "strings"

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:        name,
			StorageType: StorageHash,
		},
	}
}

// OnJSON sets the index storage type to JSON.
func (b *IndexBuilder) OnJSON() *IndexBuilder {
	b.def.StorageType = StorageJSON
	return b
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// JSONTag indexes a dotted document path as a sortable TAG aliased by Alias(path).
func (b *IndexBuilder) JSONTag(path string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:     JSONPath(path),
		Alias:    Alias(path),
		Type:     IndexFieldTag,
		Sortable: true,
	})
	return b
}

// JSONNumeric indexes a dotted document path as a sortable NUMERIC field.
func (b *IndexBuilder) JSONNumeric(path string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:     JSONPath(path),
		Alias:    Alias(path),
		Type:     IndexFieldNumeric,
		Sortable: true,
	})
	return b
}

// JSONText indexes a dotted document path for full-text search.
func (b *IndexBuilder) JSONText(path string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  JSONPath(path),
		Alias: Alias(path),
		Type:  IndexFieldText,
	})
	return b
}

// JSONTagText indexes a path as a TAG for exact filters plus a TEXT copy for free-text matches.
func (b *IndexBuilder) JSONTagText(path string) *IndexBuilder {
	b.JSONTag(path)
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  JSONPath(path),
		Alias: Alias(path) + TextSuffix,
		Type:  IndexFieldText,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name}
	if idx.StorageType != "" {
		parts = append(parts, "ON", string(idx.StorageType))
	}
	if len(idx.Prefixes) > 0 {
		parts = append(parts, "PREFIX")
		parts = append(parts, idx.Prefixes...)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name)
		if f.Alias != "" {
			parts = append(parts, "AS", f.Alias)
		}
		parts = append(parts, f.Type.String())
		if f.Sortable {
			parts = append(parts, "SORTABLE")
		}
	}
	return strings.Join(parts, " ")
}
