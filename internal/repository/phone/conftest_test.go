package phone

import (
	"context"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
	domphone "github.com/kailas-cloud/phonedex/internal/domain/phone"
	"github.com/kailas-cloud/phonedex/internal/repository/catalog"
	"github.com/kailas-cloud/phonedex/internal/repository/docstore"
)

// memStore is an in-memory JSON + KV store for tests.
type memStore struct {
	json   map[string][]byte
	kv     map[string][]byte
	setErr error
}

func newMemStore() *memStore {
	return &memStore{json: map[string][]byte{}, kv: map[string][]byte{}}
}

func (m *memStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.json[key] = data
	return nil
}

func (m *memStore) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	for _, it := range items {
		if err := m.JSONSet(ctx, it.Key, it.Path, it.Data); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	data, ok := m.json[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte("[" + string(data) + "]"), nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.json, key)
	delete(m.kv, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.json[key]
	return ok, nil
}

func (m *memStore) SearchList(
	_ context.Context, _, _ string, offset, limit int, _ []string,
) (*db.SearchResult, error) {
	res := &db.SearchResult{Total: len(m.json)}
	i := 0
	for key, data := range m.json {
		if i >= offset && len(res.Entries) < limit {
			res.Entries = append(res.Entries, db.SearchEntry{Key: key, Fields: map[string]string{"$": string(data)}})
		}
		i++
	}
	return res, nil
}

func (m *memStore) SearchCount(_ context.Context, _, _ string) (int, error) {
	return len(m.json), nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = value
	return true, nil
}

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(docstore.New[domphone.Phone](ms, catalog.Phones), ms), ms
}

func testPhone(id, slug string) *domphone.Phone {
	return &domphone.Phone{ID: id, Name: "Pixel 8", Slug: slug, Brand: "google", OS: domphone.Android}
}
