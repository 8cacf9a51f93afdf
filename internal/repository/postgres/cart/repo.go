package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
)

type CartRow struct {
	ID        string
	Items     []cartuc.Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartRepo struct {
	db *pgxpool.Pool
}

func NewCartRepo(db *pgxpool.Pool) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

func (r *CartRepo) GetByID(ctx context.Context, id string) (*CartRow, error) {
	const q = `
SELECT id::text, items, created_at, updated_at
FROM carts
WHERE id = $1::uuid;
`
	var out CartRow
	if err := r.db.QueryRow(ctx, q, id).Scan(&out.ID, &out.Items, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// lockCart creates the cart row on first use and locks it for the rest of tx.
func lockCart(ctx context.Context, tx pgx.Tx, id string) (*CartRow, error) {
	const ensure = `
INSERT INTO carts (id) VALUES ($1::uuid)
ON CONFLICT (id) DO NOTHING;
`
	if _, err := tx.Exec(ctx, ensure, id); err != nil {
		return nil, err
	}

	const q = `
SELECT id::text, items, created_at, updated_at
FROM carts
WHERE id = $1::uuid
FOR UPDATE;
`
	var out CartRow
	if err := tx.QueryRow(ctx, q, id).Scan(&out.ID, &out.Items, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func saveCartItems(ctx context.Context, tx pgx.Tx, id string, items []cartuc.Item) (*CartRow, error) {
	const q = `
UPDATE carts
SET items = $2::jsonb, updated_at = now()
WHERE id = $1::uuid
RETURNING id::text, items, created_at, updated_at;
`
	var out CartRow
	if err := tx.QueryRow(ctx, q, id, items).Scan(&out.ID, &out.Items, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearItems empties a cart inside a caller-owned transaction. A cart that
// was never saved is left absent.
func ClearItems(ctx context.Context, tx pgx.Tx, id string) error {
	const q = `
UPDATE carts
SET items = '[]'::jsonb, updated_at = now()
WHERE id = $1::uuid;
`
	_, err := tx.Exec(ctx, q, id)
	return err
}
