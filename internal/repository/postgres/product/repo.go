package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

// ProductDetails is the jsonb column; exactly one field is set.
type ProductDetails struct {
	Helmet    *productuc.HelmetDetail    `json:"helmet,omitempty"`
	Apparel   *productuc.ApparelDetail   `json:"apparel,omitempty"`
	Accessory *productuc.AccessoryDetail `json:"accessory,omitempty"`
	Bundle    *productuc.BundleDetail    `json:"bundle,omitempty"`
}

type ProductRow struct {
	ID          string
	Kind        string
	Name        string
	Brand       string
	Price       int64
	Image       string
	WeightGrams int
	IsActive    bool
	Details     ProductDetails
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `
  id::text, kind, name, brand, price, image,
  weight_grams, is_active, details,
  created_at, updated_at`

func scanProduct(row pgx.Row) (*ProductRow, error) {
	var out ProductRow
	if err := row.Scan(
		&out.ID,
		&out.Kind,
		&out.Name,
		&out.Brand,
		&out.Price,
		&out.Image,
		&out.WeightGrams,
		&out.IsActive,
		&out.Details,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepo) Create(ctx context.Context, in ProductRow) (*ProductRow, error) {
	q := `
INSERT INTO products (kind, name, brand, price, image, weight_grams, details)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
RETURNING` + productColumns + `;`
	return scanProduct(r.db.QueryRow(ctx, q,
		in.Kind,
		in.Name,
		in.Brand,
		in.Price,
		in.Image,
		in.WeightGrams,
		in.Details,
	))
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*ProductRow, error) {
	q := `SELECT` + productColumns + `
FROM products
WHERE id = $1::uuid;`
	return scanProduct(r.db.QueryRow(ctx, q, id))
}

func (r *ProductRepo) List(ctx context.Context, kind *string, limit, offset int) ([]ProductRow, error) {
	q := `SELECT` + productColumns + `
FROM products
WHERE is_active
  AND ($1::text IS NULL OR kind = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, q, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
