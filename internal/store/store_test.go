package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/30tools/ai-agents-directory/internal/store"
)

// newTestStore creates a fresh in-memory store for tests with no persistence.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore("")
	t.Cleanup(func() { s.Close() })
	return s
}

func newBoltStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.OpenBoltStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenBoltStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ─── Shared contract ─────────────────────────────────────────

func TestStoreContract(t *testing.T) {
	backends := map[string]func(*testing.T) store.Store{
		"memory": newTestStore,
		"bolt":   newBoltStore,
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			if _, err := s.Get(ctx, "missing"); !store.IsNotFound(err) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, "k", `["a"]`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != `["a"]` {
				t.Errorf("Get() = %q, want %q", got, `["a"]`)
			}

			if err := s.Set(ctx, "k", `[]`); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			if got, _ := s.Get(ctx, "k"); got != `[]` {
				t.Errorf("Get() after overwrite = %q, want %q", got, `[]`)
			}

			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, "k"); !store.IsNotFound(err) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete() of missing key error = %v", err)
			}

			if err := s.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]store.Store{
		"memory": store.NewMemoryStore(""),
		"bolt":   newBoltStore(t),
	} {
		if err := s.Close(); err != nil {
			t.Fatalf("%s: Close() error = %v", name, err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("%s: second Close() error = %v", name, err)
		}
		if err := s.Set(ctx, "k", "v"); err == nil {
			t.Errorf("%s: Set() on closed store succeeded", name)
		}
		if _, err := s.Get(ctx, "k"); err == nil || store.IsNotFound(err) {
			t.Errorf("%s: Get() on closed store error = %v, want ErrClosed", name, err)
		}
	}
}

// ─── Persistence ─────────────────────────────────────────────

func TestMemoryStore_SnapshotSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	ctx := context.Background()

	s := store.NewMemoryStore(path)
	if err := s.Set(ctx, "ai-agents-favorites", `["cody"]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// Close flushes without waiting for the debounce.
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := store.NewMemoryStore(path)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get(ctx, "ai-agents-favorites")
	if err != nil {
		t.Fatalf("Get() after restart error = %v", err)
	}
	if got != `["cody"]` {
		t.Errorf("Get() after restart = %q, want %q", got, `["cody"]`)
	}
}

func TestBoltStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := store.OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore() error = %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	reopened, err := store.OpenBoltStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if got, _ := reopened.Get(ctx, "k"); got != "v" {
		t.Errorf("Get() after restart = %q, want %q", got, "v")
	}
}

func TestOpenBoltStore_EmptyPath(t *testing.T) {
	if _, err := store.OpenBoltStore("  "); err == nil {
		t.Error("OpenBoltStore(\"\") succeeded, want error")
	}
}
