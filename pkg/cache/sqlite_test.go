package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/remvze/gitscovery/internal/utils"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "gitscovery.sqlite"))
	if err != nil {
		t.Fatalf("could not open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_SetGet(t *testing.T) {
	store := openTestDB(t)

	if _, ok := store.Get("missing"); ok {
		t.Fatal("expected a miss for an unknown key")
	}

	if err := store.Set("k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, ok := store.Get("k"); !ok || got != "v1" {
		t.Fatalf("expected v1, got %q (ok=%v)", got, ok)
	}

	// Upsert path
	if err := store.Set("k", "v2"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	if got, _ := store.Get("k"); got != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q", got)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitscovery.sqlite")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("could not open sqlite store: %v", err)
	}
	if err := WriteEntry(store, []string{"u1", "u2"}, time.UnixMilli(1710500000000)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("could not reopen sqlite store: %v", err)
	}
	defer reopened.Close()

	entry, ok := ReadEntry(reopened)
	if !ok {
		t.Fatal("expected the entry to survive a reopen")
	}
	if !utils.AreSlicesEqual(entry.Repos, []string{"u1", "u2"}) {
		t.Fatalf("unexpected repos after reopen: %v", entry.Repos)
	}
}

func TestSQLite_Clear(t *testing.T) {
	store := openTestDB(t)

	if err := WriteEntry(store, []string{"u1"}, time.Now()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := ReadEntry(store); ok {
		t.Fatal("expected an empty cache after clear")
	}
}
