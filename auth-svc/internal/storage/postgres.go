package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS admins (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login    TIMESTAMPTZ
		)
	`)
	return err
}

func (r *PostgresRepository) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var (
		admin     domain.Admin
		lastLogin sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, last_login
		FROM admins
		WHERE email = $1
	`, email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}
	return &admin, nil
}

// UpsertAdmin creates the account or replaces its password hash. It is used
// to bootstrap the administrator from the environment.
func (r *PostgresRepository) UpsertAdmin(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at
	`, admin.ID, admin.Email, admin.PasswordHash).Scan(&admin.ID, &admin.CreatedAt)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE admins SET last_login = $1 WHERE id = $2`, at, id)
	return err
}
