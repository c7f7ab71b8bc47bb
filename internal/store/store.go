// Package store defines the persistence contract for the application.
//
// THE WHOLE-DOCUMENT MODEL:
// The entire dataset — every user and every tip — lives in one Document.
// Each operation loads the whole document, mutates its in-memory copy, and
// saves the whole document back. There is no fine-grained persistence, no
// append log, and no transaction spanning multiple logical operations.
//
// WHY AN INTERFACE?
// The narrow Load/Save contract means service logic never knows whether the
// backing store is a flat JSON file (jsonfile, the default) or an embedded
// database (sqlite). Swapping backends is a one-line change in the server's
// composition root.
//
// CONCURRENCY:
// Load and Save are individually safe, but the load→mutate→save sequence is
// not — two racing operations could both load the pre-mutation state and the
// second save would silently discard the first's effect. Callers (the service
// layer) hold a shared mutex across the whole sequence; see service.New*.
package store

import (
	"context"

	"github.com/sakif/tipboard/internal/model"
)

// Document is the single persisted unit: all users and all tips.
type Document struct {
	Users []model.User `json:"users"`
	Tips  []model.Tip  `json:"tips"`
}

// Empty returns a fresh document with non-nil (but empty) collections.
// Non-nil matters: `"users": null` and `"users": []` are different JSON,
// and the wire contract promises arrays.
func Empty() *Document {
	return &Document{
		Users: []model.User{},
		Tips:  []model.Tip{},
	}
}

// Store loads and saves the whole document.
//
// Load must return an empty document (not an error) when the backing storage
// has never been written. Save must be atomic from the perspective of any
// subsequent Load — a reader never observes a half-written document.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
