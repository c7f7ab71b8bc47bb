package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/tipboard/internal/model"
	"github.com/sakif/tipboard/internal/store"
)

// newTestDB opens an in-memory database that disappears on Close.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(\":memory:\"): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoad_FreshDatabaseIsEmpty(t *testing.T) {
	db := newTestDB(t)

	doc, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Tips) != 0 {
		t.Errorf("expected empty document, got %d users / %d tips", len(doc.Users), len(doc.Tips))
	}
	if doc.Users == nil || doc.Tips == nil {
		t.Error("collections should be empty slices, not nil")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	in := &store.Document{
		Users: []model.User{
			{ID: "u1", Username: "alice", Password: "pw123", ProfilePicture: "alice.png"},
			{ID: "u2", Username: "bob", Password: "hunter2", ProfilePicture: ""},
		},
		Tips: []model.Tip{
			{ID: "t1", Title: "hello", UserID: "u1"},
			{ID: "t2", Title: "world", UserID: "u2"},
		},
	}
	if err := db.Save(context.Background(), in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out.Users) != 2 || len(out.Tips) != 2 {
		t.Fatalf("got %d users / %d tips, want 2 / 2", len(out.Users), len(out.Tips))
	}
	// Insertion order is preserved (ORDER BY rowid on load).
	for i := range in.Users {
		if out.Users[i] != in.Users[i] {
			t.Errorf("user[%d] = %+v, want %+v", i, out.Users[i], in.Users[i])
		}
	}
	for i := range in.Tips {
		if out.Tips[i] != in.Tips[i] {
			t.Errorf("tip[%d] = %+v, want %+v", i, out.Tips[i], in.Tips[i])
		}
	}
}

func TestSave_ReplacesWholeDocument(t *testing.T) {
	db := newTestDB(t)

	first := &store.Document{
		Users: []model.User{{ID: "u1", Username: "alice", Password: "pw"}},
		Tips:  []model.Tip{{ID: "t1", Title: "one", UserID: "u1"}},
	}
	if err := db.Save(context.Background(), first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := &store.Document{
		Users: []model.User{{ID: "u2", Username: "bob", Password: "pw"}},
		Tips:  []model.Tip{},
	}
	if err := db.Save(context.Background(), second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out.Users) != 1 || out.Users[0].ID != "u2" {
		t.Errorf("users = %+v, want only u2", out.Users)
	}
	if len(out.Tips) != 0 {
		t.Errorf("tips = %+v, want none", out.Tips)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Running migrations again on an initialised database must be a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}
