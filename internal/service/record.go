package service

import (
	"context"
	"errors"
	"strings"

	"qualityweb/internal/apperror"
	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// RecordService is the use-case layer for the plain CRUD resources. T is the
// stored record, C its create input and U its coalesce patch.
type RecordService[T, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in C) (*T, error)
	Update(ctx context.Context, id int64, patch U) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type (
	AuditService            = RecordService[model.Audit, model.AuditInput, model.AuditPatch]
	CorrectiveActionService = RecordService[model.CorrectiveAction, model.CorrectiveActionInput, model.CorrectiveActionPatch]
	IndicatorService        = RecordService[model.Indicator, model.IndicatorFields, model.IndicatorFields]
)

type recordService[T, C, U any] struct {
	name     string
	repo     repository.RecordRepository[T, C, U]
	notFound *apperror.Error
}

// NewRecordService builds a RecordService. name is used in error codes and
// log operations, e.g. "audit" yields AUDIT_NOT_FOUND.
func NewRecordService[T, C, U any](name string, repo repository.RecordRepository[T, C, U]) RecordService[T, C, U] {
	return &recordService[T, C, U]{
		name: name,
		repo: repo,
		notFound: apperror.NotFound(
			strings.ToUpper(name)+"_NOT_FOUND",
			strings.ReplaceAll(name, "_", " ")+" not found",
		),
	}
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return NewRecordService("audit", repo)
}

func NewCorrectiveActionService(repo repository.CorrectiveActionRepository) CorrectiveActionService {
	return NewRecordService("corrective_action", repo)
}

func NewIndicatorService(repo repository.IndicatorRepository) IndicatorService {
	return NewRecordService("indicator", repo)
}

func (s *recordService[T, C, U]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("list "+s.name, err)
	}
	return items, nil
}

func (s *recordService[T, C, U]) Get(ctx context.Context, id int64) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError("find", err)
	}
	return rec, nil
}

func (s *recordService[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	rec, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, s.repoError("insert", err)
	}
	return rec, nil
}

func (s *recordService[T, C, U]) Update(ctx context.Context, id int64, patch U) (*T, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	rec, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.repoError("update", err)
	}
	return rec, nil
}

func (s *recordService[T, C, U]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.repoError("delete", err)
	}
	return nil
}

func (s *recordService[T, C, U]) repoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.notFound
	case errors.Is(err, repository.ErrReferenceNotFound):
		return ErrResponsibleNotFound
	}
	return apperror.Storage(op+" "+s.name, err)
}
