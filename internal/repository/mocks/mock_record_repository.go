package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecordRepository mocks repository.RecordRepository for any resource.
type MockRecordRepository[T, C, U any] struct {
	mock.Mock
}

func (m *MockRecordRepository[T, C, U]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRecordRepository[T, C, U]) FindByID(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T, C, U]) Update(ctx context.Context, id int64, patch U) (*T, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T, C, U]) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
