package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"docuflow/internal/model"
	"docuflow/internal/repository"
)

// ErrCorruptSnapshot is returned when the snapshot file exists but cannot be decoded.
// The file is left untouched so it can be inspected or restored.
var ErrCorruptSnapshot = errors.New("document snapshot is corrupt")

// file is the on-disk layout of the snapshot.
type file struct {
	Documents []model.Document `json:"documents"`
}

// DocumentSnapshot is a repository.DocumentRepository backed by a single JSON file.
// Every operation reads the whole snapshot, applies its change and writes the whole
// snapshot back. All operations on one instance are serialized, and writes go through
// a temp file plus rename so a reader never observes a partially written snapshot.
type DocumentSnapshot struct {
	mu   sync.Mutex
	path string
}

var _ repository.DocumentRepository = (*DocumentSnapshot)(nil)

// NewDocumentSnapshot creates a snapshot repository persisted at path.
// The parent directory is created if missing; failure to do so is fatal.
func NewDocumentSnapshot(path string) (*DocumentSnapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	s := &DocumentSnapshot{path: path}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the snapshot file.
func (s *DocumentSnapshot) Path() string {
	return s.path
}

// Ping verifies the snapshot can be read (initializing it if absent).
func (s *DocumentSnapshot) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.read()
	return err
}

// Create appends doc and persists the snapshot.
func (s *DocumentSnapshot) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(db.Documents, func(d model.Document) bool { return d.ID == doc.ID }) {
		return nil, repository.ErrDuplicate
	}

	db.Documents = append(db.Documents, *doc)
	if err := s.write(db); err != nil {
		return nil, err
	}

	out := *doc
	return &out, nil
}

// FindByID returns the document with exactly the given ID.
func (s *DocumentSnapshot) FindByID(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(db.Documents, func(d model.Document) bool { return d.ID == id })
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	out := db.Documents[i]
	return &out, nil
}

// List returns all documents, newest first. The snapshot keeps insertion order, so
// reversing it before a stable sort puts the later insert first among equal timestamps.
func (s *DocumentSnapshot) List(ctx context.Context) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}

	items := slices.Clone(db.Documents)
	slices.Reverse(items)
	slices.SortStableFunc(items, func(a, b model.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return items, nil
}

// Delete removes the document with the given ID and persists the snapshot.
func (s *DocumentSnapshot) Delete(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.read()
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(db.Documents, func(d model.Document) bool { return d.ID == id })
	if i < 0 {
		return nil, repository.ErrNotFound
	}

	removed := db.Documents[i]
	db.Documents = slices.Delete(db.Documents, i, i+1)
	if err := s.write(db); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (s *DocumentSnapshot) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	return nil
}

// read loads the snapshot. A missing or empty file means the store was never
// initialized: an empty snapshot is written and returned.
func (s *DocumentSnapshot) read() (*file, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		db := &file{Documents: []model.Document{}}
		if err := s.write(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	var db file
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, s.path, err)
	}
	if db.Documents == nil {
		db.Documents = []model.Document{}
	}
	return &db, nil
}

func (s *DocumentSnapshot) write(db *file) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(b); err != nil {
		cleanup()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
