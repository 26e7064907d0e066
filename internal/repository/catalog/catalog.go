package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
)

// Collections stored under phonedex:<collection>:<id>.
const (
	Phones  = "phone"
	Offers  = "offer"
	Options = "option"
	Users   = "user"
)

// Key returns the storage key of a document.
func Key(collection, id string) string {
	return Prefix(collection) + id
}

// Prefix returns the key prefix shared by every document of a collection.
func Prefix(collection string) string {
	return domain.KeyPrefix + collection + ":"
}

// IDFromKey strips the collection prefix from a storage key.
func IDFromKey(collection, key string) string {
	return strings.TrimPrefix(key, Prefix(collection))
}

// IndexName returns the FT index name of a collection.
func IndexName(collection string) string {
	return domain.KeyPrefix + collection + ":idx"
}

// UniqueKey returns the reservation key for a unique field value.
// Reservations live outside document prefixes so indexes never see them.
func UniqueKey(collection, field, value string) string {
	return domain.KeyPrefix + "unique:" + collection + ":" + field + ":" + value
}

// Collection maps a searchable entity to its collection.
func Collection(e entity.Kind) string {
	switch e {
	case entity.Phone:
		return Phones
	case entity.Offer:
		return Offers
	default:
		return string(e)
	}
}

// Indexes returns the FT index definitions of every searchable collection.
// Paths used by filters and string facets are TAG; free-text paths get a TEXT copy.
func Indexes() []*db.IndexDefinition {
	phones := db.NewIndex(IndexName(Phones)).OnJSON().Prefix(Prefix(Phones)).
		JSONText("name").
		JSONTag("slug").
		JSONTagText("brand").
		JSONTagText("os").
		JSONTagText("features.color").
		JSONTagText("features.storage").
		JSONTagText("features.memory").
		JSONText("description").
		MustBuild()

	offers := db.NewIndex(IndexName(Offers)).OnJSON().Prefix(Prefix(Offers)).
		JSONText("phone.name").
		JSONTag("phone._id").
		JSONTag("phone.slug").
		JSONTagText("phone.brand").
		JSONTagText("phone.os").
		JSONTagText("network").
		JSONTagText("dealType").
		JSONTagText("store").
		JSONText("description").
		JSONNumeric("deal.cost").
		JSONNumeric("deal.upfrontCost").
		JSONNumeric("deal.contractLength").
		JSONNumeric("deal.data").
		MustBuild()

	options := db.NewIndex(IndexName(Options)).OnJSON().Prefix(Prefix(Options)).
		JSONTag("name").
		MustBuild()

	return []*db.IndexDefinition{phones, offers, options}
}

// IndexNames lists the FT index names created by EnsureIndexes.
func IndexNames() []string {
	defs := Indexes()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}

type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// EnsureIndexes creates every catalogue index, leaving existing ones untouched.
func EnsureIndexes(ctx context.Context, m indexManager, logger *zap.Logger) error {
	for _, def := range Indexes() {
		err := m.CreateIndex(ctx, def)
		switch {
		case err == nil:
			logger.Info("Index created", zap.String("index", def.Name))
		case errors.Is(err, db.ErrIndexExists):
			logger.Debug("Index exists", zap.String("index", def.Name))
		default:
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}
