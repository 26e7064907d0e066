package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/phonedex/internal/auth"
	"github.com/kailas-cloud/phonedex/internal/config"
	"github.com/kailas-cloud/phonedex/internal/db"
	dbElastic "github.com/kailas-cloud/phonedex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/phonedex/internal/db/redis"
	domoffer "github.com/kailas-cloud/phonedex/internal/domain/offer"
	domoption "github.com/kailas-cloud/phonedex/internal/domain/option"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/domain/search/entity"
	"github.com/kailas-cloud/phonedex/internal/metrics"
	attemptsrepo "github.com/kailas-cloud/phonedex/internal/repository/attempts"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
	offerrepo "github.com/kailas-cloud/phonedex/internal/repository/offer"
	optionrepo "github.com/kailas-cloud/phonedex/internal/repository/option"
	phonerepo "github.com/kailas-cloud/phonedex/internal/repository/phone"
	searchrepo "github.com/kailas-cloud/phonedex/internal/repository/search"
	"github.com/kailas-cloud/phonedex/internal/repository/searchcache"
	userrepo "github.com/kailas-cloud/phonedex/internal/repository/user"
	healthuc "github.com/kailas-cloud/phonedex/internal/usecase/health"
	offeruc "github.com/kailas-cloud/phonedex/internal/usecase/offer"
	optionuc "github.com/kailas-cloud/phonedex/internal/usecase/option"
	phoneuc "github.com/kailas-cloud/phonedex/internal/usecase/phone"
	searchuc "github.com/kailas-cloud/phonedex/internal/usecase/search"
	useruc "github.com/kailas-cloud/phonedex/internal/usecase/user"
	"github.com/kailas-cloud/phonedex/internal/validation"
)

// App holds the stores and use cases shared by the API server and the seed tool.
type App struct {
	Store     *dbRedis.Store
	Elastic   *dbElastic.Store // nil unless search.driver is elasticsearch
	Tokens    *auth.Tokens
	Validator *validation.Validator

	Phones  *phoneuc.Service
	Offers  *offeruc.Service
	Options *optionuc.Service
	Users   *useruc.Service
	Search  *searchuc.Service
	Health  *healthuc.Service
}

// New connects the stores, ensures the search indexes and builds every use case.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	a := &App{Store: store}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	if err := catalog.EnsureIndexes(ctx, store, logger); err != nil {
		a.Close()
		return nil, err
	}

	metrics.RegisterSearchMetrics()

	phoneDocs := docstore.New[domphone.Phone](store, catalog.Phones)
	offerDocs := docstore.New[domoffer.Offer](store, catalog.Offers)

	// Searches run on the document store unless Elasticsearch is configured,
	// in which case searchable documents are mirrored there on write.
	var (
		searchStore db.FacetSearcher = store
		indexFor                     = catalog.RedisIndexNamer()
		backend                      = config.SearchRedis
	)
	if cfg.Search.Driver == config.SearchElasticsearch {
		es := cfg.Search.Elasticsearch
		a.Elastic, err = dbElastic.NewStore(dbElastic.Config{
			Addresses: es.Addresses,
			Username:  es.Username,
			Password:  es.Password,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create elasticsearch store: %w", err)
		}
		if err := catalog.EnsureElasticIndexes(ctx, a.Elastic, es.IndexPrefix, logger); err != nil {
			a.Close()
			return nil, err
		}
		phoneDocs.WithMirror(a.Elastic, catalog.ElasticIndex(es.IndexPrefix, catalog.Collection(entity.Phone)))
		offerDocs.WithMirror(a.Elastic, catalog.ElasticIndex(es.IndexPrefix, catalog.Collection(entity.Offer)))
		searchStore = a.Elastic
		indexFor = catalog.ElasticIndexNamer(es.IndexPrefix)
		backend = config.SearchElasticsearch
	}

	var searcher searchuc.Repository = searchrepo.New(searchStore, indexFor)
	if ttl := cfg.Search.CacheTTL(); ttl > 0 {
		searcher = searchcache.New(searcher, store, ttl, metrics.SearchCacheTotal, logger)
	}
	searcher = searchuc.NewInstrumentedRepository(searcher, backend, logger)

	a.Tokens, err = auth.NewTokens(cfg.Auth.JWTKey, cfg.Auth.TokenTTL())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Validator, err = validation.New()
	if err != nil {
		a.Close()
		return nil, err
	}

	phones := phonerepo.New(phoneDocs, store)
	offers := offerrepo.New(offerDocs)
	options := optionrepo.New(docstore.New[domoption.Option](store, catalog.Options))
	attempts := attemptsrepo.New(store, cfg.Auth.Lockout())

	a.Phones = phoneuc.New(phones, offers, logger).WithListLimit(cfg.Catalog.PhoneListSize)
	a.Offers = offeruc.New(offers, phones).
		WithPagination(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize).
		WithMaxBatchSize(cfg.Catalog.MaxBatchSize)
	a.Options = optionuc.New(options)
	a.Users = useruc.New(userrepo.New(store), auth.NewHasher(cfg.Auth.BcryptCost), a.Tokens, attempts, logger).
		WithMaxAttempts(cfg.Auth.MaxLoginAttempt)
	a.Search = searchuc.New(searcher).WithPageSizes(cfg.Catalog.PhonePageSize, cfg.Catalog.OfferPageSize)

	if a.Elastic != nil {
		a.Health = healthuc.New(store, a.Elastic)
	} else {
		a.Health = healthuc.New(store, nil)
	}
	a.Health.WithIndexes(store, catalog.IndexNames()...)

	return a, nil
}

// Close releases the store connections.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}
