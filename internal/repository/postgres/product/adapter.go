package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

type ProductStoreAdapter struct {
	repo *ProductRepo
}

var _ productuc.Store = (*ProductStoreAdapter)(nil)

func NewProductStoreAdapter(repo *ProductRepo) *ProductStoreAdapter {
	return &ProductStoreAdapter{repo: repo}
}

func (a *ProductStoreAdapter) Create(ctx context.Context, in productuc.CreateInput) (*productuc.Product, error) {
	row, err := a.repo.Create(ctx, ProductRow{
		Kind:        string(in.Kind),
		Name:        in.Name,
		Brand:       in.Brand,
		Price:       in.Price,
		Image:       in.Image,
		WeightGrams: in.WeightGrams,
		Details: ProductDetails{
			Helmet:    in.Helmet,
			Apparel:   in.Apparel,
			Accessory: in.Accessory,
			Bundle:    in.Bundle,
		},
	})
	if err != nil {
		return nil, err
	}
	return mapProductRow(*row), nil
}

func (a *ProductStoreAdapter) GetByID(ctx context.Context, id string) (*productuc.Product, error) {
	row, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, productuc.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapProductRow(*row), nil
}

func (a *ProductStoreAdapter) List(ctx context.Context, q productuc.ListQuery) ([]productuc.Product, error) {
	var kind *string
	if q.Kind != nil {
		k := string(*q.Kind)
		kind = &k
	}
	rows, err := a.repo.List(ctx, kind, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]productuc.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, *mapProductRow(r))
	}
	return out, nil
}

func mapProductRow(r ProductRow) *productuc.Product {
	return &productuc.Product{
		ID:          r.ID,
		Kind:        productuc.Kind(r.Kind),
		Name:        r.Name,
		Brand:       r.Brand,
		Price:       r.Price,
		Image:       r.Image,
		WeightGrams: r.WeightGrams,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Helmet:      r.Details.Helmet,
		Apparel:     r.Details.Apparel,
		Accessory:   r.Details.Accessory,
		Bundle:      r.Details.Bundle,
	}
}
