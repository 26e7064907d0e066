package docstore

import (
	"context"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn      func(ctx context.Context, key, path string, data []byte) error
	jsonSetMultiFn func(ctx context.Context, items []db.JSONSetItem) error
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	searchListFn   func(
		ctx context.Context, index, query string, offset, limit int, fields []string,
	) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	if m.jsonSetMultiFn != nil {
		return m.jsonSetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, query, offset, limit, fields)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

// mockMirror records mirrored writes.
type mockMirror struct {
	indexed map[string]string
	deleted []string
	err     error
}

func (m *mockMirror) IndexDocument(_ context.Context, index, id string, doc []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.indexed == nil {
		m.indexed = map[string]string{}
	}
	m.indexed[index+"/"+id] = string(doc)
	return nil
}

func (m *mockMirror) DeleteDocument(_ context.Context, index, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, index+"/"+id)
	return nil
}

type item struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Meta  struct {
		Color string `json:"color,omitempty"`
	} `json:"meta"`
}

func newTestDocs(t *testing.T) (*Docs[item], *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New[item](ms, "widget"), ms
}
