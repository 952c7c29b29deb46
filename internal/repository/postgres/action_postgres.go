package postgres

import (
	"context"
	"database/sql"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// CorrectiveActionPostgres stores corrective actions in calidad.acciones_correctivas.
type CorrectiveActionPostgres struct {
	db *sql.DB
}

func NewCorrectiveActionPostgres(db *sql.DB) *CorrectiveActionPostgres {
	return &CorrectiveActionPostgres{db: db}
}

var _ repository.CorrectiveActionRepository = (*CorrectiveActionPostgres)(nil)

const actionColumns = `
	id_accion, codigo, origen, descripcion, id_responsable,
	to_char(fecha_limite, 'YYYY-MM-DD'), estado`

func scanAction(s rowScanner) (*model.CorrectiveAction, error) {
	var a model.CorrectiveAction
	if err := s.Scan(&a.ID, &a.Code, &a.Origin, &a.Description, &a.ResponsibleID, &a.DueDate, &a.Status); err != nil {
		return nil, rowError(err)
	}
	return &a, nil
}

func (r *CorrectiveActionPostgres) List(ctx context.Context) ([]model.CorrectiveAction, error) {
	const q = `SELECT` + actionColumns + `
		FROM calidad.acciones_correctivas
		ORDER BY fecha_limite DESC, id_accion DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CorrectiveAction, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *CorrectiveActionPostgres) FindByID(ctx context.Context, id int64) (*model.CorrectiveAction, error) {
	const q = `SELECT` + actionColumns + ` FROM calidad.acciones_correctivas WHERE id_accion = $1`
	return scanAction(r.db.QueryRowContext(ctx, q, id))
}

// Create defaults the due date to today and the status to "Pendiente".
func (r *CorrectiveActionPostgres) Create(ctx context.Context, in model.CorrectiveActionInput) (*model.CorrectiveAction, error) {
	const q = `
		INSERT INTO calidad.acciones_correctivas (codigo, origen, descripcion, id_responsable, fecha_limite, estado)
		VALUES ($1, $2, $3, $4, COALESCE($5::date, CURRENT_DATE), COALESCE($6, 'Pendiente'))
		RETURNING` + actionColumns
	return scanAction(r.db.QueryRowContext(ctx, q,
		nullString(in.Code),
		nullString(in.Origin),
		nullString(in.Description),
		nullInt64(in.ResponsibleID),
		nullString(in.DueDate),
		nullString(in.Status),
	))
}

func (r *CorrectiveActionPostgres) Update(ctx context.Context, id int64, patch model.CorrectiveActionPatch) (*model.CorrectiveAction, error) {
	const q = `
		UPDATE calidad.acciones_correctivas SET
			codigo         = COALESCE($1, codigo),
			origen         = COALESCE($2, origen),
			descripcion    = COALESCE($3, descripcion),
			id_responsable = COALESCE($4, id_responsable),
			fecha_limite   = COALESCE($5::date, fecha_limite),
			estado         = COALESCE($6, estado)
		WHERE id_accion = $7
		RETURNING` + actionColumns
	return scanAction(r.db.QueryRowContext(ctx, q,
		nullString(patch.Code),
		nullString(patch.Origin),
		nullString(patch.Description),
		nullInt64(patch.ResponsibleID),
		nullString(patch.DueDate),
		nullString(patch.Status),
		id,
	))
}

func (r *CorrectiveActionPostgres) Delete(ctx context.Context, id int64) error {
	return execDelete(r.db.ExecContext(ctx, `DELETE FROM calidad.acciones_correctivas WHERE id_accion = $1`, id))
}
