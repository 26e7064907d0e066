package option

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/option"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
)

// fakeStore keeps JSON documents in memory and answers searches with a fixed result.
type fakeStore struct {
	docs   map[string][]byte
	search *db.SearchResult
	query  string
}

func (f *fakeStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	f.docs[key] = data
	return nil
}

func (f *fakeStore) JSONSetMulti(context.Context, []db.JSONSetItem) error { return nil }

func (f *fakeStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	d, ok := f.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte("[" + string(d) + "]"), nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.docs, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.docs[key]
	return ok, nil
}

func (f *fakeStore) SearchList(_ context.Context, _, query string, _, _ int, _ []string) (*db.SearchResult, error) {
	f.query = query
	return f.search, nil
}

func (f *fakeStore) SearchCount(context.Context, string, string) (int, error) { return 0, nil }

func newTestRepo(t *testing.T) (*Repo, *fakeStore) {
	t.Helper()
	fs := &fakeStore{docs: map[string][]byte{}, search: &db.SearchResult{}}
	return New(docstore.New[option.Option](fs, catalog.Options)), fs
}

func TestCreateGetDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	o := &option.Option{ID: "o1", Name: "networks", Value: json.RawMessage(`["EE","O2"]`)}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "networks" || string(got.Value) != `["EE","O2"]` {
		t.Errorf("unexpected option: %+v", got)
	}

	if err := repo.Delete(ctx, "o1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "o1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByName(t *testing.T) {
	repo, fs := newTestRepo(t)
	fs.search = &db.SearchResult{Total: 30, Entries: []db.SearchEntry{
		{Key: "phonedex:option:o1", Fields: map[string]string{"$": `{"_id":"o1","name":"top brands","value":1}`}},
	}}

	got, total, err := repo.ByName(context.Background(), "top brands", 12, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.query != `@name:{top\ brands}` {
		t.Errorf("query = %q", fs.query)
	}
	if total != 30 || len(got) != 1 {
		t.Errorf("unexpected result: %d %+v", total, got)
	}
}

func TestUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_ = repo.Create(ctx, &option.Option{ID: "o1", Name: "n", Value: json.RawMessage(`1`)})

	p, _ := patch.New(map[string]any{"value": map[string]any{"a": 1}})
	got, err := repo.Update(ctx, "o1", p, func(o *option.Option) error { return o.Validate() })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.Value) != `{"a":1}` {
		t.Errorf("value = %s", got.Value)
	}
}
