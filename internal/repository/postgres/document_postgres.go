package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docuflow/internal/model"
	"docuflow/internal/repository"
)

const pgDuplicateKeyCode = "23505"

const columns = `id, title, file_name, status, language, summary, extracted_deadline, created_at, upload_path`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Ping checks database connectivity.
func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.FileName,
		string(doc.Status),
		doc.Language,
		doc.Summary,
		doc.ExtractedDeadline,
		doc.CreatedAt,
		doc.UploadPath,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + columns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

// List returns every document, newest first; seq breaks created_at ties by insertion order.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + columns + ` FROM documents ORDER BY created_at DESC, seq DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by ID and returns the deleted row.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) (*model.Document, error) {
	const q = `DELETE FROM documents WHERE id = $1 RETURNING ` + columns
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var (
		d      model.Document
		status string
	)
	if err := s.Scan(
		&d.ID,
		&d.Title,
		&d.FileName,
		&status,
		&d.Language,
		&d.Summary,
		&d.ExtractedDeadline,
		&d.CreatedAt,
		&d.UploadPath,
	); err != nil {
		return nil, err
	}
	d.Status = model.Status(status)
	if !d.Status.Valid() {
		return nil, fmt.Errorf("document %s: unknown status %q", d.ID, status)
	}
	// pgx returns TIMESTAMPTZ in the process's local zone
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

// mapError translates sql.ErrNoRows and unique violations to repository errors.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKeyCode {
		return repository.ErrDuplicate
	}
	return err
}
