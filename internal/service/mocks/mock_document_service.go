package mocks

import (
	"context"
	"io"

	"docuflow/internal/model"
	"docuflow/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context) (*service.DocumentListResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, fileName, uploadPath string) (*model.Document, error) {
	args := m.Called(ctx, fileName, uploadPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentService) SaveUpload(ctx context.Context, fileName string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, fileName, r, size)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, fileName string, size int64) (*model.Document, error) {
	args := m.Called(ctx, r, fileName, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ service.DocumentService = (*MockDocumentService)(nil)
