package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
)

type DraftRow struct {
	CartID     string
	Customer   orderuc.CustomerInfo
	ShippingID string
	PromoCode  string
	UpdatedAt  time.Time
}

type DraftRepo struct {
	db *pgxpool.Pool
}

func NewDraftRepo(db *pgxpool.Pool) *DraftRepo {
	return &DraftRepo{db: db}
}

func (r *DraftRepo) GetByCart(ctx context.Context, cartID string) (*DraftRow, error) {
	const q = `
SELECT cart_id::text, customer, shipping_id, promo_code, updated_at
FROM checkout_drafts
WHERE cart_id = $1::uuid;
`
	var out DraftRow
	if err := r.db.QueryRow(ctx, q, cartID).Scan(
		&out.CartID,
		&out.Customer,
		&out.ShippingID,
		&out.PromoCode,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DraftRepo) Upsert(ctx context.Context, in DraftRow) (time.Time, error) {
	const q = `
INSERT INTO checkout_drafts (cart_id, customer, shipping_id, promo_code)
VALUES ($1::uuid, $2::jsonb, $3, $4)
ON CONFLICT (cart_id) DO UPDATE SET
  customer = EXCLUDED.customer,
  shipping_id = EXCLUDED.shipping_id,
  promo_code = EXCLUDED.promo_code,
  updated_at = now()
RETURNING updated_at;
`
	var at time.Time
	err := r.db.QueryRow(ctx, q, in.CartID, in.Customer, in.ShippingID, in.PromoCode).Scan(&at)
	return at, err
}
