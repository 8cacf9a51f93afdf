package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
)

type CartStoreAdapter struct {
	repo *CartRepo
}

var _ cartuc.Store = (*CartStoreAdapter)(nil)

func NewCartStoreAdapter(repo *CartRepo) *CartStoreAdapter {
	return &CartStoreAdapter{repo: repo}
}

func (a *CartStoreAdapter) Get(ctx context.Context, id string) (*cartuc.Cart, error) {
	row, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return &cartuc.Cart{ID: id, Items: []cartuc.Item{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return mapCartRow(row), nil
}

func (a *CartStoreAdapter) Update(ctx context.Context, id string, fn func(*cartuc.Cart) error) (*cartuc.Cart, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1) lock (and lazily create) the cart row
	row, err := lockCart(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	// 2) mutate in memory
	c := mapCartRow(row)
	if err := fn(c); err != nil {
		return nil, err
	}

	// 3) persist
	saved, err := saveCartItems(ctx, tx, id, c.Items)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mapCartRow(saved), nil
}

func mapCartRow(r *CartRow) *cartuc.Cart {
	items := r.Items
	if items == nil {
		items = []cartuc.Item{}
	}
	return &cartuc.Cart{
		ID:        r.ID,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
