package repository

import (
	"context"

	"docuflow/internal/model"
)

// DocumentRepository defines data access for document metadata.
// No business logic here: strictly persistence operations.
type DocumentRepository interface {
	Pinger

	// Create appends a fully populated document and persists it before returning.
	// The caller provides ID, CreatedAt and Status.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the document whose ID matches exactly, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns every document ordered by CreatedAt descending.
	// Documents sharing a CreatedAt are ordered by insertion, most recent first.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes a document by ID and returns the removed record, or ErrNotFound.
	Delete(ctx context.Context, id string) (*model.Document, error)
}
