package service

import (
	"context"

	"qualityweb/internal/apperror"
	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// SummaryService serves the dashboard counters.
type SummaryService interface {
	Counts(ctx context.Context) (*model.DashboardSummary, error)
}

type summaryService struct {
	repo repository.SummaryRepository
}

func NewSummaryService(repo repository.SummaryRepository) SummaryService {
	return &summaryService{repo: repo}
}

// Counts fails as a whole when any count cannot be read.
func (s *summaryService) Counts(ctx context.Context) (*model.DashboardSummary, error) {
	sum, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, apperror.Storage("count records", err)
	}
	return sum, nil
}
