package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromoRow struct {
	Code        string
	Type        string
	Value       int64
	MinOrder    *int64
	MaxDiscount *int64
	IsActive    bool
	Description string
	UpdatedAt   time.Time
}

type PromoRepo struct {
	db *pgxpool.Pool
}

func NewPromoRepo(db *pgxpool.Pool) *PromoRepo {
	return &PromoRepo{db: db}
}

const promoColumns = `code, type, value, min_order, max_discount, is_active, description, updated_at`

func scanPromo(row pgx.Row) (*PromoRow, error) {
	var out PromoRow
	if err := row.Scan(
		&out.Code,
		&out.Type,
		&out.Value,
		&out.MinOrder,
		&out.MaxDiscount,
		&out.IsActive,
		&out.Description,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PromoRepo) FindActive(ctx context.Context, code string) (*PromoRow, error) {
	q := `SELECT ` + promoColumns + ` FROM promo_rules WHERE code = $1 AND is_active;`
	return scanPromo(r.db.QueryRow(ctx, q, code))
}

func (r *PromoRepo) List(ctx context.Context) ([]PromoRow, error) {
	q := `SELECT ` + promoColumns + ` FROM promo_rules ORDER BY is_active DESC, code;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PromoRow
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PromoRepo) Upsert(ctx context.Context, in PromoRow) (*PromoRow, error) {
	q := `
INSERT INTO promo_rules (code, type, value, min_order, max_discount, is_active, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (code) DO UPDATE SET
  type = EXCLUDED.type,
  value = EXCLUDED.value,
  min_order = EXCLUDED.min_order,
  max_discount = EXCLUDED.max_discount,
  is_active = EXCLUDED.is_active,
  description = EXCLUDED.description,
  updated_at = now()
RETURNING ` + promoColumns + `;`
	return scanPromo(r.db.QueryRow(ctx, q,
		in.Code,
		in.Type,
		in.Value,
		in.MinOrder,
		in.MaxDiscount,
		in.IsActive,
		in.Description,
	))
}

// Deactivate reports whether a row was changed.
func (r *PromoRepo) Deactivate(ctx context.Context, code string) (bool, error) {
	const q = `
UPDATE promo_rules
SET is_active = false, updated_at = now()
WHERE code = $1;
`
	tag, err := r.db.Exec(ctx, q, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
