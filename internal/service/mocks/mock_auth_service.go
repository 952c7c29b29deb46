package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"qualityweb/internal/auth"
	"qualityweb/internal/model"
	"qualityweb/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, id *auth.Identity) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Counts(ctx context.Context) (*model.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}
