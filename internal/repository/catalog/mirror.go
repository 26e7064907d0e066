package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
)

// Mirror receives a copy of every searchable document write.
type Mirror interface {
	IndexDocument(ctx context.Context, index, id string, doc []byte) error
	DeleteDocument(ctx context.Context, index, id string) error
}

// Indexer creates an external index from a mapping.
type Indexer interface {
	EnsureIndex(ctx context.Context, name string, mapping []byte) error
}

// ElasticIndex names the external index of a collection.
func ElasticIndex(prefix, collection string) string {
	return prefix + collection + "s"
}

// ElasticIndexNamer returns the external index name of a searchable entity.
func ElasticIndexNamer(prefix string) func(entity.Kind) string {
	return func(e entity.Kind) string {
		return ElasticIndex(prefix, Collection(e))
	}
}

// RedisIndexNamer returns the FT index name of a searchable entity.
func RedisIndexNamer() func(entity.Kind) string {
	return func(e entity.Kind) string {
		return IndexName(Collection(e))
	}
}

// Strings are text with a keyword sub-field for terms aggregations.
const stringTemplate = `{"strings":{"match_mapping_type":"string","mapping":{"type":"text","fields":{"keyword":{"type":"keyword","ignore_above":256}}}}}`

var mappings = map[string]string{
	Phones: `{"mappings":{"dynamic_templates":[` + stringTemplate + `]}}`,
	Offers: `{"mappings":{"dynamic_templates":[` + stringTemplate + `],"properties":{"deal":{"properties":{` +
		`"cost":{"type":"double"},"upfrontCost":{"type":"double"},"contractLength":{"type":"double"},` +
		`"data":{"type":"double"},"minutes":{"type":"double"},"texts":{"type":"double"},"deliveryCost":{"type":"double"}}}}}}`,
}

// EnsureElasticIndexes creates the external indexes of searchable collections.
func EnsureElasticIndexes(ctx context.Context, ix Indexer, prefix string, logger *zap.Logger) error {
	for _, collection := range []string{Phones, Offers} {
		name := ElasticIndex(prefix, collection)
		if err := ix.EnsureIndex(ctx, name, []byte(mappings[collection])); err != nil {
			return fmt.Errorf("ensure index %s: %w", name, err)
		}
		logger.Info("Search index ready", zap.String("index", name))
	}
	return nil
}
