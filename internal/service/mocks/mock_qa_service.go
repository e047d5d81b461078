package mocks

import (
	"context"

	"docuflow/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockQAService struct {
	mock.Mock
}

func (m *MockQAService) Ask(ctx context.Context, q service.Question) (*service.Answer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Answer), args.Error(1)
}
