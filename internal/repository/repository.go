// Package repository contains data access abstractions. Implementations live
// in subpackages (postgres) and contain no business logic.
package repository

import (
	"context"
	"errors"

	"qualityweb/internal/model"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrReferenceNotFound is returned when a write names a related row
	// (such as the responsible user) that does not exist.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

// RecordRepository is the persistence contract shared by the plain CRUD
// resources. C is the create input and U the coalesce patch.
type RecordRepository[T, C, U any] interface {
	// List returns every record, most recent first.
	List(ctx context.Context) ([]T, error)
	// FindByID returns ErrNotFound if the row is absent.
	FindByID(ctx context.Context, id int64) (*T, error)
	// Create inserts a record and returns it with column defaults applied.
	Create(ctx context.Context, in C) (*T, error)
	// Update applies only the non-nil fields of patch. Returns ErrNotFound if the row is absent.
	Update(ctx context.Context, id int64, patch U) (*T, error)
	// Delete removes a record. Returns ErrNotFound if the row is absent.
	Delete(ctx context.Context, id int64) error
}

type (
	AuditRepository            = RecordRepository[model.Audit, model.AuditInput, model.AuditPatch]
	CorrectiveActionRepository = RecordRepository[model.CorrectiveAction, model.CorrectiveActionInput, model.CorrectiveActionPatch]
	IndicatorRepository        = RecordRepository[model.Indicator, model.IndicatorFields, model.IndicatorFields]
)

// UserRepository reads provisioned accounts.
type UserRepository interface {
	// FindByEmail returns ErrNotFound if no account uses email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// SummaryRepository aggregates dashboard counters.
type SummaryRepository interface {
	Counts(ctx context.Context) (*model.DashboardSummary, error)
}
