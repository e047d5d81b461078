package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (snapshot, postgres) inside this directory.

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by every implementation when no document matches the requested ID.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a document with the same ID is already stored.
	ErrDuplicate = errors.New("document already exists")
)

// Pinger reports whether the backing store is reachable and usable.
type Pinger interface {
	Ping(ctx context.Context) error
}
