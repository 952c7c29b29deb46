package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"qualityweb/internal/repository"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SQLSTATE foreign_key_violation.
const foreignKeyViolation = "23503"

// rowError maps driver errors from a single-row statement onto the
// repository sentinels.
func rowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", repository.ErrReferenceNotFound, pgErr.ConstraintName)
	}
	return err
}

// nullString maps nil and blank strings to SQL NULL so that COALESCE keeps
// the stored value and column defaults apply.
func nullString(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// execDelete runs a single-row DELETE and maps zero affected rows to ErrNotFound.
func execDelete(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
