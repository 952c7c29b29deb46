package postgres

import (
	"context"
	"database/sql"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// SummaryPostgres counts rows for the dashboard in a single round trip.
type SummaryPostgres struct {
	db *sql.DB
}

func NewSummaryPostgres(db *sql.DB) *SummaryPostgres {
	return &SummaryPostgres{db: db}
}

var _ repository.SummaryRepository = (*SummaryPostgres)(nil)

func (r *SummaryPostgres) Counts(ctx context.Context) (*model.DashboardSummary, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM calidad.documentos),
			(SELECT COUNT(*) FROM calidad.auditorias),
			(SELECT COUNT(*) FROM calidad.acciones_correctivas),
			(SELECT COUNT(*) FROM calidad.indicadores)`
	var s model.DashboardSummary
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Documents, &s.Audits, &s.CorrectiveActions, &s.Indicators); err != nil {
		return nil, err
	}
	return &s, nil
}
