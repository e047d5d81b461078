package storage

import "errors"

var (
	// ErrNotFound indicates nothing is stored at the requested location.
	ErrNotFound = errors.New("stored upload not found")
	// ErrInvalidLocation indicates a location outside the storage root.
	ErrInvalidLocation = errors.New("location is outside the uploads root")
)
