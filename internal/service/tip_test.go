package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sakif/tipboard/internal/apperror"
	"github.com/sakif/tipboard/internal/model"
)

// newTestTipService returns a TipService over a fake store pre-seeded with
// two users, alice and bob.
func newTestTipService(t *testing.T) (*TipService, *fakeStore) {
	t.Helper()
	db := newFakeStore()
	db.doc.Users = []model.User{
		{ID: "u-alice", Username: "alice", Password: "pw", ProfilePicture: "alice.png"},
		{ID: "u-bob", Username: "bob", Password: "pw", ProfilePicture: ""},
	}
	svc := NewTipService(db, &sync.Mutex{}, testLogger())
	return svc, db
}

// =========================================================================
// CREATE / LIST TESTS
// =========================================================================

func TestCreate_ReturnsID(t *testing.T) {
	svc, db := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}
	if len(db.doc.Tips) != 1 {
		t.Fatalf("stored tips = %d, want 1", len(db.doc.Tips))
	}
	if db.doc.Tips[0].ID != id {
		t.Errorf("stored id = %q, want %q", db.doc.Tips[0].ID, id)
	}
	if db.doc.Tips[0].UserID != "u-alice" {
		t.Errorf("stored userId = %q, want %q", db.doc.Tips[0].UserID, "u-alice")
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc, db := newTestTipService(t)

	for _, title := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), title, "u-alice"); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q): error = %v, want ErrValidation", title, err)
		}
	}
	if db.saves != 0 {
		t.Errorf("saves = %d, want 0", db.saves)
	}
}

func TestList_RoundTripWithJoin(t *testing.T) {
	svc, _ := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List() returned %d tips, want 1", len(views))
	}

	v := views[0]
	if v.ID != id {
		t.Errorf("ID = %q, want %q", v.ID, id)
	}
	if v.Title != "hello" {
		t.Errorf("Title = %q, want %q", v.Title, "hello")
	}
	if v.UserID != "u-alice" {
		t.Errorf("UserID = %q, want %q", v.UserID, "u-alice")
	}
	if v.Username != "alice" {
		t.Errorf("Username = %q, want %q", v.Username, "alice")
	}
	if v.ProfilePicture != "alice.png" {
		t.Errorf("ProfilePicture = %q, want %q", v.ProfilePicture, "alice.png")
	}
}

func TestList_DanglingOwnerBecomesUnknown(t *testing.T) {
	svc, db := newTestTipService(t)
	db.doc.Tips = []model.Tip{
		{ID: "t-orphan", Title: "who wrote this", UserID: "u-gone"},
	}

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List() returned %d tips, want 1", len(views))
	}
	if views[0].Username != "Unknown" {
		t.Errorf("Username = %q, want %q", views[0].Username, "Unknown")
	}
	if views[0].ProfilePicture != "" {
		t.Errorf("ProfilePicture = %q, want empty", views[0].ProfilePicture)
	}
}

func TestList_EmptyStore(t *testing.T) {
	svc, _ := newTestTipService(t)

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if views == nil {
		t.Error("List() should return an empty slice, not nil")
	}
	if len(views) != 0 {
		t.Errorf("List() returned %d tips, want 0", len(views))
	}
}

// =========================================================================
// OWNERSHIP TESTS
// =========================================================================

func TestUpdate_OwnTip(t *testing.T) {
	svc, db := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Update(context.Background(), id, "hello, world", "u-alice"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if db.doc.Tips[0].Title != "hello, world" {
		t.Errorf("stored title = %q, want %q", db.doc.Tips[0].Title, "hello, world")
	}
}

func TestUpdate_SomeoneElsesTip(t *testing.T) {
	svc, db := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	savesBefore := db.saves

	err = svc.Update(context.Background(), id, "hijacked", "u-bob")
	if err == nil {
		t.Fatal("Update() by a non-owner should fail")
	}
	// The failure must be plain NotFound — identical to a nonexistent id, so
	// the caller can't learn the tip exists.
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if db.doc.Tips[0].Title != "hello" {
		t.Errorf("stored title = %q, want unchanged %q", db.doc.Tips[0].Title, "hello")
	}
	if db.saves != savesBefore {
		t.Errorf("saves = %d, want %d (failed update must not save)", db.saves, savesBefore)
	}
}

func TestUpdate_NonexistentTip(t *testing.T) {
	svc, db := newTestTipService(t)

	err := svc.Update(context.Background(), "no-such-id", "title", "u-alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if db.saves != 0 {
		t.Errorf("saves = %d, want 0", db.saves)
	}
}

func TestDelete_OwnTip(t *testing.T) {
	svc, db := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), id, "u-alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(db.doc.Tips) != 0 {
		t.Errorf("stored tips = %d, want 0", len(db.doc.Tips))
	}
}

func TestDelete_SomeoneElsesTip(t *testing.T) {
	svc, _ := newTestTipService(t)

	id, err := svc.Create(context.Background(), "hello", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = svc.Delete(context.Background(), id, "u-bob")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	// Alice's tip survives.
	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 || views[0].ID != id {
		t.Errorf("tip should still be listed after a non-owner delete attempt")
	}
}

func TestDelete_NonexistentTip(t *testing.T) {
	svc, db := newTestTipService(t)

	err := svc.Delete(context.Background(), "no-such-id", "u-alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if db.saves != 0 {
		t.Errorf("saves = %d, want 0", db.saves)
	}
}

func TestDelete_RemovesOnlyTheTarget(t *testing.T) {
	svc, _ := newTestTipService(t)

	first, err := svc.Create(context.Background(), "first", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(context.Background(), "second", "u-alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), first, "u-alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List() returned %d tips, want 1", len(views))
	}
	if views[0].ID != second {
		t.Errorf("surviving tip = %q, want %q", views[0].ID, second)
	}
}
