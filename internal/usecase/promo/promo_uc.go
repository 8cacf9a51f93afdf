package promo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type Store interface {
	// FindActive returns ErrPromoNotFound when no active rule matches.
	FindActive(ctx context.Context, code string) (*Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Upsert(ctx context.Context, r Rule) (*Rule, error)
	Deactivate(ctx context.Context, code string) error
}

type Usecase struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{store: store, log: log}
}

// Apply resolves code against the promo table. A rejection leaves the
// caller's subtotal and cart untouched.
func (u *Usecase) Apply(ctx context.Context, code string, subtotal int64) (*Applied, error) {
	norm := NormalizeCode(code)
	if norm == "" {
		return nil, &Rejection{Code: norm, Reason: ReasonNotFound}
	}

	r, err := u.store.FindActive(ctx, norm)
	if errors.Is(err, ErrPromoNotFound) {
		return nil, &Rejection{Code: norm, Reason: ReasonNotFound}
	}
	if err != nil {
		return nil, err
	}

	applied, err := Evaluate(*r, subtotal)
	if err != nil {
		u.log.Debug("promo rejected", zap.String("code", norm), zap.Int64("subtotal", subtotal), zap.Error(err))
		return nil, err
	}
	return applied, nil
}

func (u *Usecase) List(ctx context.Context) ([]Rule, error) {
	return u.store.List(ctx)
}

func (u *Usecase) Upsert(ctx context.Context, r Rule) (*Rule, error) {
	r.Code = NormalizeCode(r.Code)
	if err := ValidateRule(r); err != nil {
		return nil, err
	}
	out, err := u.store.Upsert(ctx, r)
	if err != nil {
		return nil, err
	}
	u.log.Info("promo saved", zap.String("code", out.Code), zap.Bool("active", out.IsActive))
	return out, nil
}

func (u *Usecase) Deactivate(ctx context.Context, code string) error {
	norm := NormalizeCode(code)
	if norm == "" {
		return ErrInvalidRule
	}
	return u.store.Deactivate(ctx, norm)
}

func ValidateRule(r Rule) error {
	if r.Code == "" || r.Value <= 0 {
		return ErrInvalidRule
	}
	switch r.Type {
	case TypePercentage:
		if r.Value > 100 {
			return fmt.Errorf("%w: percentage must be 1-100", ErrInvalidRule)
		}
		if r.MaxDiscount != nil && *r.MaxDiscount <= 0 {
			return fmt.Errorf("%w: maxDiscount must be positive", ErrInvalidRule)
		}
	case TypeFixed:
		if r.MaxDiscount != nil {
			return fmt.Errorf("%w: maxDiscount only applies to percentage promos", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, r.Type)
	}
	if r.MinOrder != nil && *r.MinOrder < 0 {
		return fmt.Errorf("%w: minOrder cannot be negative", ErrInvalidRule)
	}
	return nil
}
