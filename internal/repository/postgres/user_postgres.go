package postgres

import (
	"context"
	"database/sql"

	"qualityweb/internal/model"
	"qualityweb/internal/repository"
)

// UserPostgres reads accounts from calidad.usuarios. Accounts are provisioned
// out of band, so there is no write path.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByEmail matches the address case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT id_usuario, nombre, correo, puesto, password_hash, activo
		FROM calidad.usuarios
		WHERE lower(correo) = lower($1)
		LIMIT 1`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Title, &u.PasswordHash, &u.Active,
	); err != nil {
		return nil, rowError(err)
	}
	return &u, nil
}
