package postgres

import (
	"context"
	"database/sql"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// IndicatorPostgres stores indicator sheets in calidad.indicadores.
type IndicatorPostgres struct {
	db *sql.DB
}

func NewIndicatorPostgres(db *sql.DB) *IndicatorPostgres {
	return &IndicatorPostgres{db: db}
}

var _ repository.IndicatorRepository = (*IndicatorPostgres)(nil)

const indicatorColumns = `
	id_indicador, codigo, nombre_indicador, status, status2, proceso, responsable,
	objetivo_impacto, descripcion, unidad_medida, meta_objetivo, frecuencia_medicion,
	principal_objeto, cod_procedimiento, to_char(fecha_deseada_finalizacion, 'YYYY-MM-DD'),
	estrategia, metodologia, procedimiento, objetivos_adicionales`

func scanIndicator(s rowScanner) (*model.Indicator, error) {
	var i model.Indicator
	if err := s.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.Status,
		&i.Status2,
		&i.Process,
		&i.Responsible,
		&i.ImpactObjective,
		&i.Description,
		&i.Unit,
		&i.Target,
		&i.Frequency,
		&i.MainObject,
		&i.ProcedureCode,
		&i.DesiredEndDate,
		&i.Strategy,
		&i.Methodology,
		&i.Procedure,
		&i.AdditionalObjectives,
	); err != nil {
		return nil, rowError(err)
	}
	return &i, nil
}

// indicatorArgs orders f the way the INSERT and UPDATE statements expect.
func indicatorArgs(f model.IndicatorFields) []any {
	return []any{
		nullString(f.Code),
		nullString(f.Name),
		nullString(f.Status),
		nullString(f.Status2),
		nullString(f.Process),
		nullString(f.Responsible),
		nullString(f.ImpactObjective),
		nullString(f.Description),
		nullString(f.Unit),
		nullString(f.Target),
		nullString(f.Frequency),
		nullString(f.MainObject),
		nullString(f.ProcedureCode),
		nullString(f.DesiredEndDate),
		nullString(f.Strategy),
		nullString(f.Methodology),
		nullString(f.Procedure),
		nullString(f.AdditionalObjectives),
	}
}

func (r *IndicatorPostgres) List(ctx context.Context) ([]model.Indicator, error) {
	const q = `SELECT` + indicatorColumns + ` FROM calidad.indicadores ORDER BY id_indicador DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Indicator, 0)
	for rows.Next() {
		i, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (r *IndicatorPostgres) FindByID(ctx context.Context, id int64) (*model.Indicator, error) {
	const q = `SELECT` + indicatorColumns + ` FROM calidad.indicadores WHERE id_indicador = $1`
	return scanIndicator(r.db.QueryRowContext(ctx, q, id))
}

func (r *IndicatorPostgres) Create(ctx context.Context, in model.IndicatorFields) (*model.Indicator, error) {
	const q = `
		INSERT INTO calidad.indicadores (
			codigo, nombre_indicador, status, status2, proceso, responsable,
			objetivo_impacto, descripcion, unidad_medida, meta_objetivo, frecuencia_medicion,
			principal_objeto, cod_procedimiento, fecha_deseada_finalizacion,
			estrategia, metodologia, procedimiento, objetivos_adicionales
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::date, $15, $16, $17, $18)
		RETURNING` + indicatorColumns
	return scanIndicator(r.db.QueryRowContext(ctx, q, indicatorArgs(in)...))
}

func (r *IndicatorPostgres) Update(ctx context.Context, id int64, patch model.IndicatorFields) (*model.Indicator, error) {
	const q = `
		UPDATE calidad.indicadores SET
			codigo                     = COALESCE($1, codigo),
			nombre_indicador           = COALESCE($2, nombre_indicador),
			status                     = COALESCE($3, status),
			status2                    = COALESCE($4, status2),
			proceso                    = COALESCE($5, proceso),
			responsable                = COALESCE($6, responsable),
			objetivo_impacto           = COALESCE($7, objetivo_impacto),
			descripcion                = COALESCE($8, descripcion),
			unidad_medida              = COALESCE($9, unidad_medida),
			meta_objetivo              = COALESCE($10, meta_objetivo),
			frecuencia_medicion        = COALESCE($11, frecuencia_medicion),
			principal_objeto           = COALESCE($12, principal_objeto),
			cod_procedimiento          = COALESCE($13, cod_procedimiento),
			fecha_deseada_finalizacion = COALESCE($14::date, fecha_deseada_finalizacion),
			estrategia                 = COALESCE($15, estrategia),
			metodologia                = COALESCE($16, metodologia),
			procedimiento              = COALESCE($17, procedimiento),
			objetivos_adicionales      = COALESCE($18, objetivos_adicionales)
		WHERE id_indicador = $19
		RETURNING` + indicatorColumns
	args := append(indicatorArgs(patch), id)
	return scanIndicator(r.db.QueryRowContext(ctx, q, args...))
}

func (r *IndicatorPostgres) Delete(ctx context.Context, id int64) error {
	return execDelete(r.db.ExecContext(ctx, `DELETE FROM calidad.indicadores WHERE id_indicador = $1`, id))
}
