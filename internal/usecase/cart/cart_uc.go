package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrSizeUnavailable = errors.New("size not available for product")
)

type Store interface {
	// Get returns an empty cart (not an error) when id has never been saved.
	Get(ctx context.Context, id string) (*Cart, error)
	// Update applies fn to the cart while holding its lock and persists the
	// result. The cart is created when absent.
	Update(ctx context.Context, id string, fn func(*Cart) error) (*Cart, error)
}

type ProductFinder interface {
	Get(ctx context.Context, id string) (*productuc.Product, error)
}

type Usecase struct {
	store    Store
	products ProductFinder
	defaults Defaults
	log      *zap.Logger
}

func New(store Store, products ProductFinder, defaults Defaults, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{store: store, products: products, defaults: defaults, log: log}
}

func (u *Usecase) Defaults() Defaults {
	return u.defaults
}

func (u *Usecase) Get(ctx context.Context, cartID string) (*Summary, error) {
	if _, err := uuid.Parse(cartID); err != nil {
		return nil, ErrInvalidInput
	}
	c, err := u.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return summarize(c), nil
}

// AddItem prices the line from the catalog; client-supplied prices are never used.
func (u *Usecase) AddItem(ctx context.Context, cartID string, in AddInput) (*Summary, error) {
	if _, err := uuid.Parse(cartID); err != nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, ErrInvalidInput
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, ErrInvalidInput
	}

	p, err := u.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	size := u.defaults.normalizeSize(in.Size)
	if !p.AcceptsSize(size) {
		return nil, fmt.Errorf("%w: product=%s size=%s", ErrSizeUnavailable, p.ID, size)
	}

	item := Item{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Size:        size,
		Color:       strings.TrimSpace(in.Color),
		Brand:       p.Brand,
		Image:       p.Image,
		WeightGrams: p.WeightGrams,
	}

	c, err := u.store.Update(ctx, cartID, func(c *Cart) error {
		c.Add(item, in.Quantity, u.defaults)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Debug("cart item added",
		zap.String("cart_id", cartID),
		zap.String("product_id", item.ProductID),
		zap.String("size", item.Size),
		zap.Int("quantity", in.Quantity))

	return summarize(c), nil
}

// UpdateQuantity is a no-op when the line is absent.
func (u *Usecase) UpdateQuantity(ctx context.Context, cartID string, k Key, quantity int) (*Summary, error) {
	if _, err := uuid.Parse(cartID); err != nil || strings.TrimSpace(k.ProductID) == "" {
		return nil, ErrInvalidInput
	}
	c, err := u.store.Update(ctx, cartID, func(c *Cart) error {
		c.UpdateQuantity(k, quantity, u.defaults)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summarize(c), nil
}

func (u *Usecase) RemoveItem(ctx context.Context, cartID string, k Key) (*Summary, error) {
	if _, err := uuid.Parse(cartID); err != nil || strings.TrimSpace(k.ProductID) == "" {
		return nil, ErrInvalidInput
	}
	c, err := u.store.Update(ctx, cartID, func(c *Cart) error {
		if !c.Remove(k, u.defaults) {
			return ErrItemNotInCart
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summarize(c), nil
}

func (u *Usecase) Clear(ctx context.Context, cartID string) error {
	if _, err := uuid.Parse(cartID); err != nil {
		return ErrInvalidInput
	}
	_, err := u.store.Update(ctx, cartID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

func summarize(c *Cart) *Summary {
	return &Summary{
		Cart:          c,
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      c.TotalPrice(),
	}
}
