package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	checkoutuc "github.com/riolentius/hideki-store-backend/internal/usecase/checkout"
)

type DraftStoreAdapter struct {
	repo *DraftRepo
}

var _ checkoutuc.DraftStore = (*DraftStoreAdapter)(nil)

func NewDraftStoreAdapter(repo *DraftRepo) *DraftStoreAdapter {
	return &DraftStoreAdapter{repo: repo}
}

func (a *DraftStoreAdapter) Get(ctx context.Context, cartID string) (*checkoutuc.Draft, error) {
	row, err := a.repo.GetByCart(ctx, cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &checkoutuc.Draft{CartID: cartID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkoutuc.Draft{
		CartID:     row.CartID,
		Customer:   row.Customer,
		ShippingID: row.ShippingID,
		PromoCode:  row.PromoCode,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (a *DraftStoreAdapter) Save(ctx context.Context, d *checkoutuc.Draft) error {
	at, err := a.repo.Upsert(ctx, DraftRow{
		CartID:     d.CartID,
		Customer:   d.Customer,
		ShippingID: d.ShippingID,
		PromoCode:  d.PromoCode,
	})
	if err != nil {
		return err
	}
	d.UpdatedAt = at
	return nil
}
