package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRow struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
}

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*AdminRow, error) {
	const q = `
SELECT id::text, email, password_hash, is_active, last_login_at
FROM admins
WHERE lower(email) = $1
LIMIT 1;
`
	row := r.db.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email)))

	var out AdminRow
	if err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.IsActive, &out.LastLoginAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AdminRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE admins SET last_login_at = $2 WHERE id = $1::uuid;`
	_, err := r.db.Exec(ctx, q, id, at)
	return err
}
