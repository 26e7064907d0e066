package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/phonedex/internal/domain"
)

func TestCreate(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.setNXFn = func(_ context.Context, key string, value []byte) (bool, error) {
		if key != "phonedex:unique:user:email:ada@example.com" {
			t.Errorf("unexpected key: %s", key)
		}
		if string(value) != "u1" {
			t.Errorf("unexpected value: %s", value)
		}
		return true, nil
	}
	var stored map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "phonedex:user:u1" {
			t.Errorf("unexpected key: %s", key)
		}
		stored = fields
		return nil
	}

	if err := repo.Create(context.Background(), testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored["password"] != "$2a$10$hash" || stored["role"] != "user" {
		t.Errorf("unexpected hash: %v", stored)
	}
	if stored["created_at"] != "2024-01-02T03:04:05Z" {
		t.Errorf("created_at = %q", stored["created_at"])
	}
}

func TestCreate_EmailTaken(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setNXFn = func(context.Context, string, []byte) (bool, error) { return false, nil }
	ms.hsetFn = func(context.Context, string, map[string]string) error {
		t.Fatal("hset must not run")
		return nil
	}

	err := repo.Create(context.Background(), testUser())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_RollbackOnHSetFailure(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(context.Context, string, map[string]string) error { return errors.New("OOM") }
	var released string
	ms.delFn = func(_ context.Context, key string) error {
		released = key
		return nil
	}

	if err := repo.Create(context.Background(), testUser()); err == nil {
		t.Fatal("expected error")
	}
	if released != "phonedex:unique:user:email:ada@example.com" {
		t.Errorf("reservation not released: %q", released)
	}
}

func TestGetByEmail(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != "phonedex:unique:user:email:ada@example.com" {
			t.Errorf("unexpected key: %s", key)
		}
		return []byte("u1"), nil
	}
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return userToHash(testUser()), nil
	}

	u, err := repo.GetByEmail(context.Background(), " ADA@example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.Name != "Ada" || !u.CreatedAt.Equal(testUser().CreatedAt) {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Get(context.Background(), "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_SortedByCreatedAt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, prefix string) ([]string, error) {
		if prefix != "phonedex:user:" {
			t.Errorf("unexpected prefix: %s", prefix)
		}
		return []string{"phonedex:user:b", "phonedex:user:gone", "phonedex:user:a"}, nil
	}

	older := testUser()
	older.ID = "a"
	newer := testUser()
	newer.ID = "b"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return []map[string]string{userToHash(newer), {}, userToHash(older)}, nil
	}

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].ID != "a" || users[1].ID != "b" {
		t.Errorf("unexpected order: %+v", users)
	}
}

func TestList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("got %v, want empty slice", users)
	}
}

func TestUserFromHash_BadTimestamp(t *testing.T) {
	if _, err := userFromHash(map[string]string{"created_at": "yesterday"}); err == nil {
		t.Fatal("expected error")
	}
}
