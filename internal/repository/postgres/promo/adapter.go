package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
)

type PromoStoreAdapter struct {
	repo *PromoRepo
}

var _ promouc.Store = (*PromoStoreAdapter)(nil)

func NewPromoStoreAdapter(repo *PromoRepo) *PromoStoreAdapter {
	return &PromoStoreAdapter{repo: repo}
}

func (a *PromoStoreAdapter) FindActive(ctx context.Context, code string) (*promouc.Rule, error) {
	row, err := a.repo.FindActive(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, promouc.ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}
	r := mapPromoRow(*row)
	return &r, nil
}

func (a *PromoStoreAdapter) List(ctx context.Context) ([]promouc.Rule, error) {
	rows, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]promouc.Rule, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapPromoRow(r))
	}
	return out, nil
}

func (a *PromoStoreAdapter) Upsert(ctx context.Context, r promouc.Rule) (*promouc.Rule, error) {
	row, err := a.repo.Upsert(ctx, PromoRow{
		Code:        r.Code,
		Type:        string(r.Type),
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		IsActive:    r.IsActive,
		Description: r.Description,
	})
	if err != nil {
		return nil, err
	}
	out := mapPromoRow(*row)
	return &out, nil
}

func (a *PromoStoreAdapter) Deactivate(ctx context.Context, code string) error {
	ok, err := a.repo.Deactivate(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return promouc.ErrPromoNotFound
	}
	return nil
}

func mapPromoRow(r PromoRow) promouc.Rule {
	return promouc.Rule{
		Code:        r.Code,
		Type:        promouc.Type(r.Type),
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		IsActive:    r.IsActive,
		Description: r.Description,
		UpdatedAt:   r.UpdatedAt,
	}
}
