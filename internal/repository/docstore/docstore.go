package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
)

// store is the consumer interface for JSON documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Docs stores documents of one collection as RedisJSON values.
// When a mirror is attached every write is copied to it.
type Docs[T any] struct {
	store       store
	collection  string
	mirror      catalog.Mirror
	mirrorIndex string
}

// New creates a document store for a collection.
func New[T any](s store, collection string) *Docs[T] {
	return &Docs[T]{store: s, collection: collection}
}

// WithMirror copies writes into an external search index.
func (d *Docs[T]) WithMirror(m catalog.Mirror, index string) *Docs[T] {
	d.mirror = m
	d.mirrorIndex = index
	return d
}

// Put writes a document under id, replacing any previous version.
func (d *Docs[T]) Put(ctx context.Context, id string, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", d.collection, err)
	}

	key := catalog.Key(d.collection, id)
	if err := d.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return d.mirrorPut(ctx, id, data)
}

// PutMany writes documents in one pipelined round trip.
func (d *Docs[T]) PutMany(ctx context.Context, ids []string, docs []*T) error {
	if len(ids) != len(docs) {
		return fmt.Errorf("ids and docs length mismatch: %d != %d", len(ids), len(docs))
	}

	items := make([]db.JSONSetItem, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", d.collection, ids[i], err)
		}
		items[i] = db.JSONSetItem{Key: catalog.Key(d.collection, ids[i]), Path: "$", Data: data}
	}

	if err := d.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set multi %s: %w", d.collection, err)
	}
	for i, item := range items {
		if err := d.mirrorPut(ctx, ids[i], item.Data); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a document by id.
func (d *Docs[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	raw, err := d.get(ctx, id)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal %s %s: %w", d.collection, id, err)
	}
	return doc, nil
}

// Merge loads a document, applies a $set patch and decodes the result.
// The stored document is left untouched.
func (d *Docs[T]) Merge(ctx context.Context, id string, p patch.Patch) (before, after T, err error) {
	raw, err := d.get(ctx, id)
	if err != nil {
		return before, after, err
	}
	if err := json.Unmarshal(raw, &before); err != nil {
		return before, after, fmt.Errorf("unmarshal %s %s: %w", d.collection, id, err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return before, after, fmt.Errorf("unmarshal %s %s: %w", d.collection, id, err)
	}
	merged, err := json.Marshal(p.Apply(m))
	if err != nil {
		return before, after, fmt.Errorf("marshal patched %s: %w", d.collection, err)
	}
	if err := json.Unmarshal(merged, &after); err != nil {
		return before, after, domain.NewValidationError("body", err.Error())
	}
	return before, after, nil
}

// Delete removes a document.
func (d *Docs[T]) Delete(ctx context.Context, id string) error {
	key := catalog.Key(d.collection, id)

	exists, err := d.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := d.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if d.mirror != nil {
		if err := d.mirror.DeleteDocument(ctx, d.mirrorIndex, id); err != nil {
			return fmt.Errorf("mirror delete %s: %w", id, err)
		}
	}
	return nil
}

// Find returns one page of documents matching an FT query plus the total match count.
func (d *Docs[T]) Find(ctx context.Context, query string, offset, limit int) ([]T, int, error) {
	idx := catalog.IndexName(d.collection)
	res, err := d.store.SearchList(ctx, idx, query, offset, limit, []string{db.FieldDocument})
	if err != nil {
		return nil, 0, fmt.Errorf("search list %s: %w", d.collection, err)
	}
	if res == nil {
		return []T{}, 0, nil
	}

	docs := make([]T, 0, len(res.Entries))
	for _, entry := range res.Entries {
		var doc T
		if err := json.Unmarshal([]byte(entry.Fields[db.FieldDocument]), &doc); err != nil {
			return nil, 0, fmt.Errorf("unmarshal %s: %w", entry.Key, err)
		}
		docs = append(docs, doc)
	}
	return docs, res.Total, nil
}

// FindAll returns every document matching an FT query.
func (d *Docs[T]) FindAll(ctx context.Context, query string) ([]T, error) {
	n, err := d.Count(ctx, query)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []T{}, nil
	}
	docs, _, err := d.Find(ctx, query, 0, n)
	return docs, err
}

// Count returns the number of documents matching an FT query.
func (d *Docs[T]) Count(ctx context.Context, query string) (int, error) {
	n, err := d.store.SearchCount(ctx, catalog.IndexName(d.collection), query)
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", d.collection, err)
	}
	return n, nil
}

// get returns the raw JSON of a document. JSON.GET with "$" wraps it in an array.
func (d *Docs[T]) get(ctx context.Context, id string) ([]byte, error) {
	key := catalog.Key(d.collection, id)
	raw, err := d.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

func (d *Docs[T]) mirrorPut(ctx context.Context, id string, data []byte) error {
	if d.mirror == nil {
		return nil
	}
	if err := d.mirror.IndexDocument(ctx, d.mirrorIndex, id, data); err != nil {
		return fmt.Errorf("mirror index %s: %w", id, err)
	}
	return nil
}
