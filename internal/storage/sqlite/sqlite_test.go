package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "autorug-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Get returns ErrNotFound for absent key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Set then Get round-trips value", func(t *testing.T) {
		if err := store.Set(ctx, "greeting", []byte("hello")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "greeting")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "hello" {
			t.Errorf("Get = %q, want hello", got)
		}
		if ts, err := store.UpdatedAt(ctx, "greeting"); err != nil || ts == 0 {
			t.Errorf("UpdatedAt = (%d, %v), want a timestamp", ts, err)
		}
	})

	t.Run("Set overwrites existing value", func(t *testing.T) {
		store.Set(ctx, "k", []byte("one"))
		if err := store.Set(ctx, "k", []byte("two")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, _ := store.Get(ctx, "k")
		if string(got) != "two" {
			t.Errorf("Get = %q, want two", got)
		}
	})

	t.Run("Delete removes key", func(t *testing.T) {
		store.Set(ctx, "gone", []byte("x"))
		if err := store.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "gone"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("collections persist through the store", func(t *testing.T) {
		coins := []models.Coin{{ID: "c1", UserID: "u1", Name: "DogeMax", Investment: 2}}
		if err := storage.SaveCollection(ctx, store, storage.KeyCoins, coins); err != nil {
			t.Fatalf("SaveCollection failed: %v", err)
		}
		got, err := storage.LoadCollection[models.Coin](ctx, store, storage.KeyCoins)
		if err != nil {
			t.Fatalf("LoadCollection failed: %v", err)
		}
		if len(got) != 1 || got[0].Name != "DogeMax" || got[0].Investment != 2 {
			t.Errorf("unexpected coins: %+v", got)
		}
	})
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := first.Set(ctx, storage.KeyCurrentUser, []byte(`{"id":"u1"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"id":"u1"}` {
		t.Errorf("Get = %s", got)
	}
}
