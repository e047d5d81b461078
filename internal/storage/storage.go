package storage

import (
	"context"
	"io"
)

// Package storage contains placement of raw uploaded bytes.
// The local implementation writes under an uploads directory; the MinIO implementation
// writes the same names as object keys in an S3-compatible bucket.

// Storage persists uploaded bytes under sanitized, collision-free names.
type Storage interface {
	// Save writes the content of r under a name derived from originalName and returns the
	// resulting location (a filesystem path or an object key). size may be -1 if unknown.
	Save(ctx context.Context, originalName string, r io.Reader, size int64) (string, error)
	// Remove deletes the content stored at a location previously returned by Save.
	// Returns ErrNotFound if nothing is stored there.
	Remove(ctx context.Context, location string) error
	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error
}
