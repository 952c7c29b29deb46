package postgres

import (
	"context"
	"database/sql"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// AuditPostgres stores internal audits in calidad.auditorias.
type AuditPostgres struct {
	db *sql.DB
}

func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

const auditColumns = `
	id_auditoria, codigo, proceso_auditado, to_char(fecha_programada, 'YYYY-MM-DD'),
	auditor, estado, resultado`

func scanAudit(s rowScanner) (*model.Audit, error) {
	var a model.Audit
	if err := s.Scan(&a.ID, &a.Code, &a.AuditedProcess, &a.ScheduledDate, &a.Auditor, &a.Status, &a.Result); err != nil {
		return nil, rowError(err)
	}
	return &a, nil
}

func (r *AuditPostgres) List(ctx context.Context) ([]model.Audit, error) {
	const q = `SELECT` + auditColumns + `
		FROM calidad.auditorias
		ORDER BY fecha_programada DESC, id_auditoria DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Audit, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *AuditPostgres) FindByID(ctx context.Context, id int64) (*model.Audit, error) {
	const q = `SELECT` + auditColumns + ` FROM calidad.auditorias WHERE id_auditoria = $1`
	return scanAudit(r.db.QueryRowContext(ctx, q, id))
}

// Create defaults the scheduled date to today and the status to "Pendiente".
func (r *AuditPostgres) Create(ctx context.Context, in model.AuditInput) (*model.Audit, error) {
	const q = `
		INSERT INTO calidad.auditorias (codigo, proceso_auditado, fecha_programada, auditor, estado, resultado)
		VALUES ($1, $2, COALESCE($3::date, CURRENT_DATE), $4, COALESCE($5, 'Pendiente'), $6)
		RETURNING` + auditColumns
	return scanAudit(r.db.QueryRowContext(ctx, q,
		in.Code,
		nullString(in.AuditedProcess),
		nullString(in.ScheduledDate),
		nullString(in.Auditor),
		nullString(in.Status),
		nullString(in.Result),
	))
}

func (r *AuditPostgres) Update(ctx context.Context, id int64, patch model.AuditPatch) (*model.Audit, error) {
	const q = `
		UPDATE calidad.auditorias SET
			codigo           = COALESCE($1, codigo),
			proceso_auditado = COALESCE($2, proceso_auditado),
			fecha_programada = COALESCE($3::date, fecha_programada),
			auditor          = COALESCE($4, auditor),
			estado           = COALESCE($5, estado),
			resultado        = COALESCE($6, resultado)
		WHERE id_auditoria = $7
		RETURNING` + auditColumns
	return scanAudit(r.db.QueryRowContext(ctx, q,
		nullString(patch.Code),
		nullString(patch.AuditedProcess),
		nullString(patch.ScheduledDate),
		nullString(patch.Auditor),
		nullString(patch.Status),
		nullString(patch.Result),
		id,
	))
}

func (r *AuditPostgres) Delete(ctx context.Context, id int64) error {
	return execDelete(r.db.ExecContext(ctx, `DELETE FROM calidad.auditorias WHERE id_auditoria = $1`, id))
}
