package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxNameAttempts bounds how far Save walks the timestamp forward on a name collision.
const maxNameAttempts = 1000

// localStorage implements Storage on the local filesystem.
// Names are claimed with O_EXCL so concurrent uploads of the same name never overwrite each other.
type localStorage struct {
	dir string
	now func() time.Time
}

// NewLocal creates filesystem-backed storage rooted at dir, creating it if missing.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	s := &localStorage{dir: dir, now: time.Now}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localStorage) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create uploads directory: %w", err)
	}
	return nil
}

// Save writes r to <dir>/<unix-ms>_<sanitized-name>.
func (s *localStorage) Save(ctx context.Context, originalName string, r io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	f, path, err := s.claim(originalName)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}

// claim exclusively creates a fresh file, moving the timestamp prefix forward on collision.
func (s *localStorage) claim(originalName string) (*os.File, string, error) {
	t := s.now()
	for i := 0; i < maxNameAttempts; i++ {
		path := filepath.Join(s.dir, StoredName(t, originalName))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
		t = t.Add(time.Millisecond)
	}
	return nil, "", fmt.Errorf("create upload: no free name for %q", originalName)
}

// Remove deletes a file previously returned by Save. Paths outside dir are refused.
func (s *localStorage) Remove(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.contains(location); err != nil {
		return err
	}
	if err := os.Remove(location); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *localStorage) contains(location string) error {
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return fmt.Errorf("resolve uploads directory: %w", err)
	}
	target, err := filepath.Abs(location)
	if err != nil {
		return fmt.Errorf("resolve upload path: %w", err)
	}
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrInvalidLocation
	}
	return nil
}

// Ping checks that the uploads directory exists and is a directory.
func (s *localStorage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat uploads directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads path %s is not a directory", s.dir)
	}
	return nil
}
