package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before anything runs; when it exists the schema
// is assumed to be in place.
const sentinelTable = "calidad.documentos"

var steps = []migrationStep{
	{
		Name: "create_schema_calidad",
		SQL:  `CREATE SCHEMA IF NOT EXISTS calidad;`,
	},
	{
		Name: "create_table_usuarios",
		SQL: `CREATE TABLE IF NOT EXISTS calidad.usuarios (
  id_usuario    BIGSERIAL    PRIMARY KEY,
  nombre        VARCHAR(150) NOT NULL,
  correo        VARCHAR(150) NOT NULL UNIQUE,
  puesto        VARCHAR(100),
  password_hash TEXT         NOT NULL,
  activo        BOOLEAN      NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_table_documentos",
		SQL: `CREATE TABLE IF NOT EXISTS calidad.documentos (
  id_documento     BIGSERIAL    PRIMARY KEY,
  codigo           VARCHAR(50),
  nombre_documento VARCHAR(255) NOT NULL,
  version          VARCHAR(20)  NOT NULL DEFAULT 'v1.0',
  fecha            DATE         NOT NULL DEFAULT CURRENT_DATE,
  estado           VARCHAR(50)  NOT NULL DEFAULT 'En Revisión',
  id_responsable   BIGINT       REFERENCES calidad.usuarios (id_usuario) ON DELETE SET NULL,
  proceso          VARCHAR(150),
  url_archivo      TEXT
);`,
	},
	{
		Name: "create_table_auditorias",
		SQL: `CREATE TABLE IF NOT EXISTS calidad.auditorias (
  id_auditoria     BIGSERIAL   PRIMARY KEY,
  codigo           VARCHAR(50) NOT NULL,
  proceso_auditado VARCHAR(150),
  fecha_programada DATE        NOT NULL DEFAULT CURRENT_DATE,
  auditor          VARCHAR(150),
  estado           VARCHAR(50) NOT NULL DEFAULT 'Pendiente',
  resultado        TEXT
);`,
	},
	{
		Name: "create_table_acciones_correctivas",
		SQL: `CREATE TABLE IF NOT EXISTS calidad.acciones_correctivas (
  id_accion      BIGSERIAL   PRIMARY KEY,
  codigo         VARCHAR(50),
  origen         VARCHAR(150),
  descripcion    TEXT,
  id_responsable BIGINT      REFERENCES calidad.usuarios (id_usuario) ON DELETE SET NULL,
  fecha_limite   DATE        NOT NULL DEFAULT CURRENT_DATE,
  estado         VARCHAR(50) NOT NULL DEFAULT 'Pendiente'
);`,
	},
	{
		Name: "create_table_indicadores",
		SQL: `CREATE TABLE IF NOT EXISTS calidad.indicadores (
  id_indicador               BIGSERIAL    PRIMARY KEY,
  codigo                     VARCHAR(50),
  nombre_indicador           VARCHAR(255),
  status                     VARCHAR(50),
  status2                    VARCHAR(50),
  proceso                    VARCHAR(150),
  responsable                VARCHAR(150),
  objetivo_impacto           TEXT,
  descripcion                TEXT,
  unidad_medida              VARCHAR(50),
  meta_objetivo              VARCHAR(100),
  frecuencia_medicion        VARCHAR(50),
  principal_objeto           TEXT,
  cod_procedimiento          VARCHAR(50),
  fecha_deseada_finalizacion DATE,
  estrategia                 TEXT,
  metodologia                TEXT,
  procedimiento              TEXT,
  objetivos_adicionales      TEXT
);`,
	},
	{
		Name: "create_index_documentos_fecha",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documentos_fecha ON calidad.documentos (fecha DESC, id_documento DESC);`,
	},
	{
		Name: "create_index_auditorias_fecha_programada",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_auditorias_fecha_programada ON calidad.auditorias (fecha_programada DESC, id_auditoria DESC);`,
	},
	{
		Name: "create_index_acciones_fecha_limite",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_acciones_fecha_limite ON calidad.acciones_correctivas (fecha_limite DESC, id_accion DESC);`,
	},
}

// EnsureMigrated checks whether calidad.documentos exists and creates the
// schema when it does not. Every step is idempotent.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "database")
	start := time.Now()

	logger.InfoContext(ctx, "db_migration_check", "sentinel", sentinelTable)

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		logger.ErrorContext(ctx, "db_migration_failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.InfoContext(ctx, "db_migration_skip",
			"reason", "schema already exists",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	logger.InfoContext(ctx, "db_migration_start", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.ErrorContext(ctx, "db_migration_failed",
				"migration_step", step.Name,
				"error", err,
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		logger.DebugContext(ctx, "db_migration_step",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	logger.InfoContext(ctx, "db_migration_success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
