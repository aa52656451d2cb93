package history

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Record("manual save", "content v1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a nonzero snapshot ID")
	}

	snap, err := store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Label != "manual save" || snap.Content != "content v1" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstWithoutContent(t *testing.T) {
	store := newTestStore(t)
	for _, label := range []string{"first", "second", "third"} {
		if _, err := store.Record(label, "body of "+label); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	snaps, err := store.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Label != "third" || snaps[1].Label != "second" {
		t.Errorf("wrong order: %s, %s", snaps[0].Label, snaps[1].Label)
	}
	if snaps[0].Content != "" {
		t.Errorf("list should not load content, got %q", snaps[0].Content)
	}
}
