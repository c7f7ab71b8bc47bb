// Package jsonfile implements the store interface on a single flat JSON file.
//
// This is the default backend: one pretty-printed JSON object on disk holding
// the whole dataset. No database server, no schema, no drivers — the file IS
// the database. At this system's scale (a shared tip board) that is a feature,
// not a shortcut: you can inspect and fix the data with a text editor.
//
// DURABILITY CONTRACT:
// Save never leaves a half-written file behind. We write the new content to a
// temp file in the same directory and rename it over the target. On POSIX
// systems rename(2) is atomic, so any concurrent Load sees either the old
// complete document or the new complete document — never a prefix of one.
// (Same-directory matters: rename is only atomic within one filesystem.)
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/tipboard/internal/store"
)

// compile-time check that *FileStore implements store.Store
var _ store.Store = (*FileStore)(nil)

// FileStore persists the document at a fixed path.
type FileStore struct {
	path string
}

// New creates a FileStore for the given path. The file is NOT created here —
// an absent file is a valid (empty) store, and Load handles it.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the backing file.
//
// TOLERATED SHAPES:
//   - file absent            → empty document (the file is not created)
//   - empty / whitespace     → empty document
//   - bare JSON array        → legacy format; its contents are DISCARDED and
//     an empty document is returned (accepted data loss, kept for
//     compatibility with how the original deployment migrated)
//   - object with missing or null "users"/"tips" → those default to empty
//
// Anything else (unreadable file, malformed JSON) is an error — a corrupt
// store must surface loudly, not be silently reset.
func (f *FileStore) Load(_ context.Context) (*store.Document, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.Empty(), nil
		}
		return nil, fmt.Errorf("jsonfile: reading %s: %w", f.path, err)
	}

	if strings.TrimSpace(string(raw)) == "" {
		return store.Empty(), nil
	}

	// Detect the legacy bare-array shape before unmarshalling into Document.
	// json.Unmarshal of an array into a struct would error with a confusing
	// message; we want the defined migration behaviour instead.
	if isJSONArray(raw) {
		return store.Empty(), nil
	}

	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("jsonfile: parsing %s: %w", f.path, err)
	}

	// Missing fields unmarshal as nil — normalise to empty slices so callers
	// can append and marshal without nil checks.
	if doc.Users == nil {
		doc.Users = store.Empty().Users
	}
	if doc.Tips == nil {
		doc.Tips = store.Empty().Tips
	}

	return &doc, nil
}

// Save serializes the document and atomically replaces the backing file.
func (f *FileStore) Save(_ context.Context, doc *store.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding document: %w", err)
	}

	// Temp file in the SAME directory as the target, so the final rename
	// stays on one filesystem and is atomic.
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".tipboard-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replacing %s: %w", f.path, err)
	}

	return nil
}

// isJSONArray reports whether the raw content's first non-whitespace byte
// starts a JSON array.
func isJSONArray(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
