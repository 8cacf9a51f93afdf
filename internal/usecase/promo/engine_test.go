package promo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_ScenarioA_UnderCap(t *testing.T) {
	out, err := Apply(DefaultRules(), "hideki10", 1000000)
	require.NoError(t, err)
	require.Equal(t, "HIDEKI10", out.Rule.Code)
	require.Equal(t, int64(100000), out.Discount)
}

func TestApply_ScenarioB_MinimumOrder(t *testing.T) {
	subtotal := int64(400000)
	out, err := Apply(DefaultRules(), "HIDEKI10", subtotal)
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrMinimumOrderNotMet)

	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	require.Equal(t, ReasonMinimumOrderNotMet, rej.Reason)
	require.Equal(t, int64(500000), rej.MinOrder)
	require.Equal(t, int64(400000), subtotal)
}

func TestApply_UnknownAndInactive(t *testing.T) {
	_, err := Apply(DefaultRules(), "NOPE", 1000000)
	require.ErrorIs(t, err, ErrPromoNotFound)

	_, err = Apply(DefaultRules(), "lebaran25", 1000000)
	require.ErrorIs(t, err, ErrPromoNotFound)
}

func TestDiscount_PercentageCapped(t *testing.T) {
	r := Rule{Code: "X", Type: TypePercentage, Value: 10, MaxDiscount: int64Ptr(100000), IsActive: true}
	for _, subtotal := range []int64{1, 999, 500000, 1000000, 1000001, 5000000, 123456789} {
		d := Discount(r, subtotal)
		require.LessOrEqual(t, d, int64(100000), "subtotal=%d", subtotal)
		require.GreaterOrEqual(t, d, int64(0))
		require.LessOrEqual(t, d, subtotal)
	}
	require.Equal(t, int64(100000), Discount(r, 5000000))
}

func TestDiscount_PercentageRoundsHalfUp(t *testing.T) {
	r := Rule{Code: "X", Type: TypePercentage, Value: 15, IsActive: true}
	// 15% of 10 = 1.5 -> 2 ; 15% of 30 = 4.5 -> 5 ; 15% of 13 = 1.95 -> 2 ; 15% of 11 = 1.65 -> 2
	require.Equal(t, int64(2), Discount(r, 10))
	require.Equal(t, int64(5), Discount(r, 30))
	require.Equal(t, int64(2), Discount(r, 13))
	require.Equal(t, int64(1), Discount(r, 9)) // 1.35
}

func TestDiscount_FixedNeverExceedsSubtotal(t *testing.T) {
	r := Rule{Code: "BIG", Type: TypeFixed, Value: 150000, IsActive: true}
	require.Equal(t, int64(90000), Discount(r, 90000))
	require.Equal(t, int64(150000), Discount(r, 200000))
	require.Equal(t, int64(0), Discount(r, 0))
}

type memStore struct {
	rules map[string]Rule
}

func (m *memStore) FindActive(_ context.Context, code string) (*Rule, error) {
	r, ok := m.rules[code]
	if !ok || !r.IsActive {
		return nil, ErrPromoNotFound
	}
	return &r, nil
}

func (m *memStore) List(context.Context) ([]Rule, error) {
	var out []Rule
	for _, r := range m.rules {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) Upsert(_ context.Context, r Rule) (*Rule, error) {
	m.rules[r.Code] = r
	return &r, nil
}

func (m *memStore) Deactivate(_ context.Context, code string) error {
	r, ok := m.rules[code]
	if !ok {
		return ErrPromoNotFound
	}
	r.IsActive = false
	m.rules[code] = r
	return nil
}

func newMemStore() *memStore {
	m := &memStore{rules: map[string]Rule{}}
	for _, r := range DefaultRules() {
		m.rules[r.Code] = r
	}
	return m
}

func TestUsecase_ApplyAndDeactivate(t *testing.T) {
	ctx := context.Background()
	uc := New(newMemStore(), nil)

	out, err := uc.Apply(ctx, " helmbaru50 ", 320000)
	require.NoError(t, err)
	require.Equal(t, int64(50000), out.Discount)

	require.NoError(t, uc.Deactivate(ctx, "helmbaru50"))
	_, err = uc.Apply(ctx, "HELMBARU50", 320000)
	require.ErrorIs(t, err, ErrPromoNotFound)

	_, err = uc.Apply(ctx, "", 320000)
	require.ErrorIs(t, err, ErrPromoNotFound)
}

func TestUsecase_UpsertValidates(t *testing.T) {
	ctx := context.Background()
	uc := New(newMemStore(), nil)

	_, err := uc.Upsert(ctx, Rule{Code: "bad", Type: TypePercentage, Value: 120, IsActive: true})
	require.ErrorIs(t, err, ErrInvalidRule)

	_, err = uc.Upsert(ctx, Rule{Code: "bad", Type: TypeFixed, Value: 1000, MaxDiscount: int64Ptr(5)})
	require.ErrorIs(t, err, ErrInvalidRule)

	out, err := uc.Upsert(ctx, Rule{Code: "gajian", Type: TypeFixed, Value: 25000, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "GAJIAN", out.Code)
}
