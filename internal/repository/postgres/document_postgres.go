package postgres

import (
	"context"
	"database/sql"
	"errors"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `
	d.id_documento, d.codigo, d.nombre_documento, d.version,
	to_char(d.fecha, 'YYYY-MM-DD'), d.estado, d.id_responsable,
	COALESCE(u.nombre, ''), d.proceso, d.url_archivo`

const documentJoin = `LEFT JOIN calidad.usuarios u ON u.id_usuario = d.id_responsable`

func scanDocument(s rowScanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Version,
		&d.Date,
		&d.Status,
		&d.ResponsibleID,
		&d.ResponsibleName,
		&d.Process,
		&d.FileURL,
	); err != nil {
		return nil, rowError(err)
	}
	return &d, nil
}

// List returns every document, newest first.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT` + documentColumns + `
		FROM calidad.documentos d
		` + documentJoin + `
		ORDER BY d.fecha DESC, d.id_documento DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT` + documentColumns + `
		FROM calidad.documentos d
		` + documentJoin + `
		WHERE d.id_documento = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a document row. Version, date and status fall back to the
// defaults the quality team uses for drafts.
func (r *DocumentPostgres) Create(ctx context.Context, in model.DocumentInput, fileURL *string) (*model.Document, error) {
	const q = `
		WITH d AS (
			INSERT INTO calidad.documentos
				(codigo, nombre_documento, version, fecha, id_responsable, estado, url_archivo, proceso)
			VALUES ($1, $2, COALESCE($3, 'v1.0'), COALESCE($4::date, CURRENT_DATE), $5, COALESCE($6, 'En Revisión'), $7, $8)
			RETURNING *
		)
		SELECT` + documentColumns + `
		FROM d
		` + documentJoin
	return scanDocument(r.db.QueryRowContext(ctx, q,
		nullString(in.Code),
		in.Name,
		nullString(in.Version),
		nullString(in.Date),
		nullInt64(in.ResponsibleID),
		nullString(in.Status),
		nullString(fileURL),
		nullString(in.Process),
	))
}

// Update applies the non-nil fields of patch.
func (r *DocumentPostgres) Update(ctx context.Context, id int64, patch model.DocumentPatch) (*model.Document, error) {
	const q = `
		WITH d AS (
			UPDATE calidad.documentos SET
				nombre_documento = COALESCE($1, nombre_documento),
				version          = COALESCE($2, version),
				fecha            = COALESCE($3::date, fecha),
				estado           = COALESCE($4, estado),
				id_responsable   = COALESCE($5, id_responsable),
				codigo           = COALESCE($6, codigo),
				proceso          = COALESCE($7, proceso)
			WHERE id_documento = $8
			RETURNING *
		)
		SELECT` + documentColumns + `
		FROM d
		` + documentJoin
	return scanDocument(r.db.QueryRowContext(ctx, q,
		nullString(patch.Name),
		nullString(patch.Version),
		nullString(patch.Date),
		nullString(patch.Status),
		nullInt64(patch.ResponsibleID),
		nullString(patch.Code),
		nullString(patch.Process),
		id,
	))
}

// SetFile replaces the document's file reference.
func (r *DocumentPostgres) SetFile(ctx context.Context, id int64, fileURL string) (*model.Document, error) {
	const q = `
		WITH d AS (
			UPDATE calidad.documentos SET url_archivo = $1
			WHERE id_documento = $2
			RETURNING *
		)
		SELECT` + documentColumns + `
		FROM d
		` + documentJoin
	return scanDocument(r.db.QueryRowContext(ctx, q, fileURL, id))
}

// Delete removes the row and hands back its file reference so the caller can
// clean up the blob.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) (*string, error) {
	const q = `DELETE FROM calidad.documentos WHERE id_documento = $1 RETURNING url_archivo`
	var fileURL sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&fileURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if !fileURL.Valid {
		return nil, nil
	}
	return &fileURL.String, nil
}
