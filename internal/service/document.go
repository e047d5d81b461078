package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"docuflow/internal/model"
	"docuflow/internal/repository"
	"docuflow/internal/storage"
)

const (
	// ListSkip and ListLimit are reported with every list response; pagination is not enforced.
	ListSkip  = 0
	ListLimit = 20
)

// DocumentListResult is the service-level DTO for the document list.
type DocumentListResult struct {
	Items []model.Document `json:"items"`
	Total int              `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// DocumentService is the document store: the sole owner of document metadata and
// uploaded-file placement.
type DocumentService interface {
	// List returns every document, newest first.
	List(ctx context.Context) (*DocumentListResult, error)

	// Get returns the document with exactly the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Create records a completed document for fileName. uploadPath may be empty.
	Create(ctx context.Context, fileName, uploadPath string) (*model.Document, error)

	// Delete removes a document and reports whether it existed. Removal of the uploaded
	// bytes is best-effort: failures are logged and never fail the call.
	Delete(ctx context.Context, id string) (bool, error)

	// SaveUpload persists raw bytes under a sanitized, timestamp-prefixed name and returns the location.
	SaveUpload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error)

	// Upload saves the bytes, then records the document. If recording fails, the saved bytes are removed.
	Upload(ctx context.Context, r io.Reader, fileName string, size int64) (*model.Document, error)

	// Ping checks both the metadata repository and the upload storage.
	Ping(ctx context.Context) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, logger *slog.Logger) DocumentService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &documentService{
		store:  store,
		repo:   repo,
		logger: logger.With("system", "documents"),
		now:    time.Now,
	}
}

func (s *documentService) List(ctx context.Context) (*DocumentListResult, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list documents failed", "error", err)
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("documents.total", len(items)))
	return &DocumentListResult{Items: items, Total: len(items), Skip: ListSkip, Limit: ListLimit}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", id))

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("get document failed", "id", id, "error", err)
		return nil, fail(span, err)
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, fileName, uploadPath string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Create")
	defer span.End()

	doc := &model.Document{
		ID:         uuid.New().String(),
		Title:      fileName,
		FileName:   fileName,
		Status:     model.StatusCompleted,
		CreatedAt:  s.now().UTC(),
		UploadPath: uploadPath,
	}
	if fileName == "" {
		doc.Title = model.DefaultTitle
		doc.FileName = model.DefaultFileName
	}
	span.SetAttributes(attribute.String("document.id", doc.ID))

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.logger.Error("create document failed", "file_name", doc.FileName, "error", err)
		return nil, fail(span, fmt.Errorf("save document: %w", err))
	}
	return stored, nil
}

func (s *documentService) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", id))

	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("delete document failed", "id", id, "error", err)
		return false, fail(span, err)
	}

	if doc.UploadPath != "" {
		if err := s.store.Remove(ctx, doc.UploadPath); err != nil {
			level := slog.LevelWarn
			if errors.Is(err, storage.ErrNotFound) {
				level = slog.LevelInfo
			}
			s.logger.Log(ctx, level, "upload cleanup failed", "id", id, "upload_path", doc.UploadPath, "error", err)
		}
	}
	return true, nil
}

func (s *documentService) SaveUpload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.SaveUpload")
	defer span.End()

	if r == nil {
		return "", fail(span, ErrReaderNil)
	}
	location, err := s.store.Save(ctx, fileName, r, size)
	if err != nil {
		s.logger.Error("save upload failed", "file_name", fileName, "error", err)
		return "", fail(span, fmt.Errorf("upload to storage: %w", err))
	}
	span.SetAttributes(attribute.String("upload.location", location))
	return location, nil
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, fileName string, size int64) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload")
	defer span.End()

	if fileName == "" {
		fileName = model.DefaultFileName
	}

	location, err := s.SaveUpload(ctx, fileName, r, size)
	if err != nil {
		return nil, fail(span, err)
	}

	doc, err := s.Create(ctx, fileName, location)
	if err != nil {
		// Rollback: the bytes are useless without a record.
		if delErr := s.store.Remove(ctx, location); delErr != nil {
			return nil, fail(span, fmt.Errorf("%w; rollback delete failed: %v", err, delErr))
		}
		return nil, fail(span, err)
	}
	return doc, nil
}

func (s *documentService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}
