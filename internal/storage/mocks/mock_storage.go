package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, originalName string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, originalName, r, size)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, int64) string); ok {
		return f(ctx, originalName, r, size), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, location string) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
