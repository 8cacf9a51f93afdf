package product

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("product not found")
	ErrInactive     = errors.New("product inactive")
)

type Store interface {
	Create(ctx context.Context, in CreateInput) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q ListQuery) ([]Product, error)
}

type Usecase struct {
	store Store
}

func New(store Store) *Usecase {
	return &Usecase{store: store}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	if err := Validate(in); err != nil {
		return nil, err
	}
	return u.store.Create(ctx, in)
}

// Get returns an active product; inactive products cannot be sold.
func (u *Usecase) Get(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidInput
	}
	p, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrInactive
	}
	return p, nil
}

func (u *Usecase) List(ctx context.Context, q ListQuery) ([]Product, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Kind != nil && !validKind(*q.Kind) {
		return nil, ErrInvalidInput
	}
	return u.store.List(ctx, q)
}

// Validate enforces the per-kind required fields.
func Validate(in CreateInput) error {
	if in.Name == "" || in.Price <= 0 || in.WeightGrams < 0 {
		return ErrInvalidInput
	}

	details := 0
	for _, set := range []bool{in.Helmet != nil, in.Apparel != nil, in.Accessory != nil, in.Bundle != nil} {
		if set {
			details++
		}
	}
	if details != 1 {
		return fmt.Errorf("%w: exactly one detail block is required", ErrInvalidInput)
	}

	switch in.Kind {
	case KindHelmet:
		if in.Helmet == nil || in.Helmet.Type == "" || len(in.Helmet.Sizes) == 0 {
			return fmt.Errorf("%w: helmet needs type and sizes", ErrInvalidInput)
		}
	case KindApparel:
		if in.Apparel == nil || len(in.Apparel.Sizes) == 0 {
			return fmt.Errorf("%w: apparel needs sizes", ErrInvalidInput)
		}
	case KindAccessory:
		if in.Accessory == nil {
			return fmt.Errorf("%w: accessory detail missing", ErrInvalidInput)
		}
	case KindBundle:
		if in.Bundle == nil || len(in.Bundle.ProductIDs) < 2 {
			return fmt.Errorf("%w: bundle needs at least two products", ErrInvalidInput)
		}
		if in.Bundle.OriginalPrice > 0 && in.Bundle.OriginalPrice < in.Price {
			return fmt.Errorf("%w: bundle price above original", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, in.Kind)
	}
	return nil
}

// Sizes lists the sizes a product is sold in. Kinds without sizing return nil.
func (p *Product) Sizes() []string {
	switch p.Kind {
	case KindHelmet:
		if p.Helmet != nil {
			return p.Helmet.Sizes
		}
	case KindApparel:
		if p.Apparel != nil {
			return p.Apparel.Sizes
		}
	}
	return nil
}

// AcceptsSize reports whether size can be ordered. Unsized kinds accept anything.
func (p *Product) AcceptsSize(size string) bool {
	sizes := p.Sizes()
	if len(sizes) == 0 {
		return true
	}
	return slices.ContainsFunc(sizes, func(s string) bool { return strings.EqualFold(s, size) })
}

func validKind(k Kind) bool {
	switch k {
	case KindHelmet, KindApparel, KindAccessory, KindBundle:
		return true
	}
	return false
}
