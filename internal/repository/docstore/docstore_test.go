package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain"
	"github.com/kailas-cloud/phonedex/internal/domain/patch"
)

func TestPut(t *testing.T) {
	docs, ms := newTestDocs(t)

	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		if key != "phonedex:widget:w1" {
			t.Errorf("unexpected key: %s", key)
		}
		if path != "$" {
			t.Errorf("unexpected path: %s", path)
		}
		if string(data) != `{"_id":"w1","name":"bolt","price":3,"meta":{}}` {
			t.Errorf("unexpected data: %s", data)
		}
		return nil
	}

	if err := docs.Put(context.Background(), "w1", &item{ID: "w1", Name: "bolt", Price: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPut_Mirrored(t *testing.T) {
	docs, _ := newTestDocs(t)
	mm := &mockMirror{}
	docs.WithMirror(mm, "widgets")

	if err := docs.Put(context.Background(), "w1", &item{ID: "w1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mm.indexed["widgets/w1"]; !ok {
		t.Fatalf("document not mirrored: %v", mm.indexed)
	}
}

func TestPut_MirrorError(t *testing.T) {
	docs, _ := newTestDocs(t)
	docs.WithMirror(&mockMirror{err: errors.New("es down")}, "widgets")

	if err := docs.Put(context.Background(), "w1", &item{ID: "w1"}); err == nil {
		t.Fatal("expected mirror error")
	}
}

func TestPut_StoreError(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.jsonSetFn = func(context.Context, string, string, []byte) error { return errors.New("OOM") }

	if err := docs.Put(context.Background(), "w1", &item{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPutMany(t *testing.T) {
	docs, ms := newTestDocs(t)
	mm := &mockMirror{}
	docs.WithMirror(mm, "widgets")

	var got []db.JSONSetItem
	ms.jsonSetMultiFn = func(_ context.Context, items []db.JSONSetItem) error {
		got = items
		return nil
	}

	err := docs.PutMany(context.Background(), []string{"a", "b"}, []*item{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Key != "phonedex:widget:a" || got[1].Key != "phonedex:widget:b" {
		t.Errorf("unexpected items: %+v", got)
	}
	if len(mm.indexed) != 2 {
		t.Errorf("mirrored %d docs, want 2", len(mm.indexed))
	}
}

func TestPutMany_LengthMismatch(t *testing.T) {
	docs, _ := newTestDocs(t)
	if err := docs.PutMany(context.Background(), []string{"a"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.jsonGetFn = func(_ context.Context, key string, paths ...string) ([]byte, error) {
		if key != "phonedex:widget:w1" || len(paths) != 1 || paths[0] != "$" {
			t.Errorf("unexpected call: %s %v", key, paths)
		}
		return []byte(`[{"_id":"w1","name":"bolt","price":3}]`), nil
	}

	got, err := docs.Get(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "bolt" || got.Price != 3 {
		t.Errorf("unexpected doc: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	docs, _ := newTestDocs(t)
	_, err := docs.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_EmptyArray(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) { return []byte(`[]`), nil }

	_, err := docs.Get(context.Background(), "w1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`[{"_id":"w1","name":"bolt","price":3,"meta":{"color":"red"}}]`), nil
	}

	p, err := patch.New(map[string]any{"price": 5, "meta.color": "blue"})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	before, after, err := docs.Merge(context.Background(), "w1", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Price != 3 || before.Meta.Color != "red" {
		t.Errorf("before = %+v", before)
	}
	if after.Price != 5 || after.Meta.Color != "blue" || after.Name != "bolt" {
		t.Errorf("after = %+v", after)
	}
}

func TestMerge_TypeMismatchIsValidationError(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`[{"_id":"w1","price":3}]`), nil
	}

	p, _ := patch.New(map[string]any{"price": "cheap"})
	_, _, err := docs.Merge(context.Background(), "w1", p)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	docs, ms := newTestDocs(t)
	mm := &mockMirror{}
	docs.WithMirror(mm, "widgets")

	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := docs.Delete(context.Background(), "w1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "phonedex:widget:w1" {
		t.Errorf("deleted %q", deleted)
	}
	if len(mm.deleted) != 1 || mm.deleted[0] != "widgets/w1" {
		t.Errorf("mirror deleted %v", mm.deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	docs, _ := newTestDocs(t)
	if err := docs.Delete(context.Background(), "w1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFind(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.searchListFn = func(
		_ context.Context, index, query string, offset, limit int, fields []string,
	) (*db.SearchResult, error) {
		if index != "phonedex:widget:idx" {
			t.Errorf("unexpected index: %s", index)
		}
		if query != "@name:{bolt}" || offset != 10 || limit != 5 {
			t.Errorf("unexpected query: %s %d %d", query, offset, limit)
		}
		if len(fields) != 1 || fields[0] != "$" {
			t.Errorf("unexpected fields: %v", fields)
		}
		return &db.SearchResult{
			Total: 11,
			Entries: []db.SearchEntry{
				{Key: "phonedex:widget:w1", Fields: map[string]string{"$": `{"_id":"w1","name":"bolt"}`}},
			},
		}, nil
	}

	got, total, err := docs.Find(context.Background(), "@name:{bolt}", 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 11 || len(got) != 1 || got[0].ID != "w1" {
		t.Errorf("unexpected result: %d %+v", total, got)
	}
}

func TestFind_BadDocument(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.searchListFn = func(context.Context, string, string, int, int, []string) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{Key: "k", Fields: map[string]string{"$": "{"}}}}, nil
	}
	if _, _, err := docs.Find(context.Background(), "*", 0, 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindAll(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.searchCountFn = func(context.Context, string, string) (int, error) { return 3, nil }
	ms.searchListFn = func(_ context.Context, _, _ string, offset, limit int, _ []string) (*db.SearchResult, error) {
		if offset != 0 || limit != 3 {
			t.Errorf("unexpected page: %d %d", offset, limit)
		}
		return &db.SearchResult{Total: 3}, nil
	}

	if _, err := docs.FindAll(context.Background(), "*"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindAll_Empty(t *testing.T) {
	docs, ms := newTestDocs(t)
	ms.searchListFn = func(context.Context, string, string, int, int, []string) (*db.SearchResult, error) {
		t.Fatal("search list must not run for an empty result")
		return nil, nil
	}

	got, err := docs.FindAll(context.Background(), "*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}
