package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

var documentRowColumns = []string{
	"id_documento", "codigo", "nombre_documento", "version", "fecha",
	"estado", "id_responsable", "responsable", "proceso", "url_archivo",
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(documentRowColumns).
		AddRow(int64(1), "DOC-001", "Manual de calidad", "v1.0", "2024-05-01", "En Revisión",
			int64(3), "Ana Pérez", nil, "/uploads/documentos/1714_manual.pdf")

	// blank version falls back to the column default
	mock.ExpectQuery("INSERT INTO calidad.documentos").
		WithArgs("DOC-001", "Manual de calidad", nil, nil, int64(3), nil, "/uploads/documentos/1714_manual.pdf", nil).
		WillReturnRows(rows)

	doc, err := repo.Create(ctx, model.DocumentInput{
		Code:          strPtr("DOC-001"),
		Name:          "Manual de calidad",
		Version:       strPtr("  "),
		ResponsibleID: int64Ptr(3),
	}, strPtr("/uploads/documentos/1714_manual.pdf"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ID)
	assert.Equal(t, "v1.0", doc.Version)
	assert.Equal(t, "En Revisión", doc.Status)
	assert.Equal(t, "Ana Pérez", doc.ResponsibleName)
	assert.Nil(t, doc.Process)
	require.NotNil(t, doc.FileURL)
	assert.Equal(t, "/uploads/documentos/1714_manual.pdf", *doc.FileURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow(int64(7), nil, "Procedimiento", "v2.0", "2024-01-10", "Vigente", nil, "", nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM calidad.documentos d (.+) WHERE d.id_documento = \\$1").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), doc.ID)
		assert.Nil(t, doc.Code)
		assert.Nil(t, doc.ResponsibleID)
		assert.Nil(t, doc.FileURL)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM calidad.documentos d").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow(int64(2), nil, "B", "v1.0", "2024-02-01", "En Revisión", nil, "", nil, nil).
			AddRow(int64(1), nil, "A", "v1.0", "2024-01-01", "Vigente", int64(3), "Ana", nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM calidad.documentos d (.+) ORDER BY d.fecha DESC, d.id_documento DESC").
			WillReturnRows(rows)

		items, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(2), items[0].ID)
		assert.Equal(t, "Ana", items[1].ResponsibleName)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM calidad.documentos d").
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		items, err := repo.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM calidad.documentos d").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.List(ctx)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("applies only provided fields", func(t *testing.T) {
		rows := sqlmock.NewRows(documentRowColumns).
			AddRow(int64(4), nil, "Manual", "v1.1", "2024-01-01", "Vigente", nil, "", nil, nil)

		mock.ExpectQuery("UPDATE calidad.documentos SET").
			WithArgs(nil, "v1.1", nil, "Vigente", nil, nil, nil, int64(4)).
			WillReturnRows(rows)

		doc, err := repo.Update(ctx, 4, model.DocumentPatch{
			Version: strPtr("v1.1"),
			Status:  strPtr("Vigente"),
		})

		require.NoError(t, err)
		assert.Equal(t, "v1.1", doc.Version)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("UPDATE calidad.documentos SET").
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		_, err := repo.Update(ctx, 404, model.DocumentPatch{})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SetFile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	rows := sqlmock.NewRows(documentRowColumns).
		AddRow(int64(4), nil, "Manual", "v1.0", "2024-01-01", "Vigente", nil, "", nil, "/uploads/documentos/2_new.pdf")

	mock.ExpectQuery("UPDATE calidad.documentos SET url_archivo = \\$1").
		WithArgs("/uploads/documentos/2_new.pdf", int64(4)).
		WillReturnRows(rows)

	doc, err := repo.SetFile(context.Background(), 4, "/uploads/documentos/2_new.pdf")

	require.NoError(t, err)
	require.NotNil(t, doc.FileURL)
	assert.Equal(t, "/uploads/documentos/2_new.pdf", *doc.FileURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("returns file reference", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM calidad.documentos WHERE id_documento = \\$1 RETURNING url_archivo").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"url_archivo"}).AddRow("/uploads/documentos/1_a.pdf"))

		url, err := repo.Delete(ctx, 1)

		require.NoError(t, err)
		require.NotNil(t, url)
		assert.Equal(t, "/uploads/documentos/1_a.pdf", *url)
	})

	t.Run("no file", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM calidad.documentos").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"url_archivo"}).AddRow(nil))

		url, err := repo.Delete(ctx, 2)

		require.NoError(t, err)
		assert.Nil(t, url)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM calidad.documentos").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"url_archivo"}))

		_, err := repo.Delete(ctx, 3)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UnknownResponsible(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "documentos_id_responsable_fkey"}

	mock.ExpectQuery("INSERT INTO calidad.documentos").WillReturnError(fkErr)
	_, err := repo.Create(ctx, model.DocumentInput{Name: "Manual", ResponsibleID: int64Ptr(99)}, nil)
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "documentos_id_responsable_fkey")

	mock.ExpectQuery("UPDATE calidad.documentos").WillReturnError(fkErr)
	_, err = repo.Update(ctx, 1, model.DocumentPatch{ResponsibleID: int64Ptr(99)})
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)

	// other constraint failures pass through untouched
	mock.ExpectQuery("INSERT INTO calidad.documentos").WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.Create(ctx, model.DocumentInput{Name: "Manual"}, nil)
	assert.NotErrorIs(t, err, repository.ErrReferenceNotFound)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))

	assert.NoError(t, mock.ExpectationsWereMet())
}
