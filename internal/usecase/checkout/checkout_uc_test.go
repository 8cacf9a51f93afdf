package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type memDrafts map[string]Draft

func (m memDrafts) Get(_ context.Context, cartID string) (*Draft, error) {
	d, ok := m[cartID]
	if !ok {
		return &Draft{CartID: cartID}, nil
	}
	return &d, nil
}

func (m memDrafts) Save(_ context.Context, d *Draft) error {
	m[d.CartID] = *d
	return nil
}

type fixedCarts struct {
	cart *cartuc.Cart
}

func (f fixedCarts) Get(_ context.Context, cartID string) (*cartuc.Summary, error) {
	c := f.cart.Clone()
	c.ID = cartID
	return &cartuc.Summary{Cart: c, TotalQuantity: c.TotalQuantity(), Subtotal: c.TotalPrice()}, nil
}

type tablePromos []promouc.Rule

func (t tablePromos) Apply(_ context.Context, code string, subtotal int64) (*promouc.Applied, error) {
	return promouc.Apply(t, code, subtotal)
}

type staticRates []shippinguc.Option

func (s staticRates) Rates(_ context.Context, req shippinguc.RateRequest) ([]shippinguc.Option, error) {
	var out []shippinguc.Option
	for _, o := range s {
		if o.Courier == req.Courier {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no service")
	}
	return out, nil
}

type fakePayments struct {
	begun []*orderuc.Transaction
}

func (f *fakePayments) Begin(_ context.Context, txn *orderuc.Transaction, cartID string) (*paymentuc.Attempt, error) {
	f.begun = append(f.begun, txn)
	return &paymentuc.Attempt{OrderID: txn.OrderID, CartID: cartID, State: paymentuc.StateAwaitingInteraction, Transaction: *txn}, nil
}

func (f *fakePayments) ListByCart(_ context.Context, cartID string) ([]paymentuc.Attempt, error) {
	var out []paymentuc.Attempt
	for _, txn := range f.begun {
		out = append(out, paymentuc.Attempt{OrderID: txn.OrderID, CartID: cartID})
	}
	return out, nil
}

func customer() orderuc.CustomerInfo {
	return orderuc.CustomerInfo{
		Name:            "Siti Rahma",
		Email:           "siti@example.id",
		Phone:           "081234567890",
		Address:         "Jl. Dago No. 10",
		DestinationCity: "23",
	}
}

func newTestUsecase(subtotalHalf int64) (*Usecase, memDrafts, *fakePayments) {
	c := &cartuc.Cart{Items: []cartuc.Item{
		{ProductID: "h1", Name: "KYT TT Course", Price: subtotalHalf, Quantity: 2, Size: "M", WeightGrams: 1500},
	}}
	rates := staticRates{
		{Courier: "tiki", Service: "REG", Cost: 25000},
		{Courier: "jne", Service: "REG", Cost: 15000},
		{Courier: "pos", Service: "Pos Reguler", Cost: 18000},
	}
	ship := shippinguc.New(rates, shippinguc.Config{
		Origin:         "151",
		Couriers:       []string{"jne", "pos", "tiki"},
		MinWeightGrams: 1000,
	}, nil)
	promos := tablePromos(promouc.DefaultRules())
	drafts := memDrafts{}
	payments := &fakePayments{}
	uc := New(drafts, fixedCarts{cart: c}, ship, promos, orderuc.NewAssembler(promos, 1000), payments, nil)
	return uc, drafts, payments
}

func TestQuote_WithoutCustomerListsMissing(t *testing.T) {
	uc, _, _ := newTestUsecase(500000)

	q, err := uc.Quote(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.False(t, q.Ready())
	require.Contains(t, q.Missing, "destinationCity")
	require.Contains(t, q.Missing, "shipping")
	require.Nil(t, q.Shipping)
	require.Equal(t, int64(1001000), q.Totals.GrossTotal)
}

func TestSetCustomer_DefaultsToCheapestShipping(t *testing.T) {
	uc, _, _ := newTestUsecase(500000)

	q, err := uc.SetCustomer(context.Background(), uuid.NewString(), customer())
	require.NoError(t, err)
	require.True(t, q.Ready())
	require.Equal(t, int64(15000), q.Selected.Cost)
	require.Equal(t, 3000, q.Shipping.WeightGrams)
	require.Equal(t, int64(1000000+15000+1000), q.Totals.GrossTotal)
}

func TestSelectShipping(t *testing.T) {
	uc, drafts, _ := newTestUsecase(500000)
	ctx := context.Background()
	cartID := uuid.NewString()

	_, err := uc.SelectShipping(ctx, cartID, "tiki:REG")
	var ve *orderuc.ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = uc.SetCustomer(ctx, cartID, customer())
	require.NoError(t, err)

	q, err := uc.SelectShipping(ctx, cartID, "tiki:reg")
	require.NoError(t, err)
	require.Equal(t, int64(25000), q.Selected.Cost)
	require.Equal(t, "tiki:REG", drafts[cartID].ShippingID)

	_, err = uc.SelectShipping(ctx, cartID, "sicepat:BEST")
	require.ErrorIs(t, err, shippinguc.ErrOptionNotFound)

	// moving the destination drops the old choice
	moved := customer()
	moved.DestinationCity = "501"
	q, err = uc.SetCustomer(ctx, cartID, moved)
	require.NoError(t, err)
	require.Empty(t, drafts[cartID].ShippingID)
	require.Equal(t, int64(15000), q.Selected.Cost)
}

func TestApplyPromo(t *testing.T) {
	uc, drafts, _ := newTestUsecase(500000)
	ctx := context.Background()
	cartID := uuid.NewString()

	q, err := uc.ApplyPromo(ctx, cartID, "hideki10")
	require.NoError(t, err)
	require.Equal(t, int64(100000), q.Promo.Discount)
	require.Equal(t, "HIDEKI10", drafts[cartID].PromoCode)

	// last applied code wins
	q, err = uc.ApplyPromo(ctx, cartID, "HELMBARU50")
	require.NoError(t, err)
	require.Equal(t, int64(50000), q.Totals.Discount)

	// a rejected code leaves the previous one in place
	_, err = uc.ApplyPromo(ctx, cartID, "RIDER20")
	require.ErrorIs(t, err, promouc.ErrMinimumOrderNotMet)
	require.Equal(t, "HELMBARU50", drafts[cartID].PromoCode)

	q, err = uc.RemovePromo(ctx, cartID)
	require.NoError(t, err)
	require.Nil(t, q.Promo)
	require.Zero(t, q.Totals.Discount)
}

func TestApplyPromo_BelowMinimum(t *testing.T) {
	uc, drafts, _ := newTestUsecase(200000)
	cartID := uuid.NewString()

	_, err := uc.ApplyPromo(context.Background(), cartID, "HIDEKI10")
	var rej *promouc.Rejection
	require.True(t, errors.As(err, &rej))
	require.Equal(t, promouc.ReasonMinimumOrderNotMet, rej.Reason)
	require.NotContains(t, drafts, cartID)
}

func TestPlace(t *testing.T) {
	uc, _, payments := newTestUsecase(1000000)
	ctx := context.Background()
	cartID := uuid.NewString()

	_, err := uc.Place(ctx, cartID)
	require.ErrorIs(t, err, orderuc.ErrValidation)
	require.Empty(t, payments.begun)

	_, err = uc.SetCustomer(ctx, cartID, customer())
	require.NoError(t, err)
	_, err = uc.ApplyPromo(ctx, cartID, "HIDEKI10")
	require.NoError(t, err)

	a, err := uc.Place(ctx, cartID)
	require.NoError(t, err)
	require.Equal(t, paymentuc.StateAwaitingInteraction, a.State)
	require.Equal(t, int64(1916000), a.Transaction.GrossTotal)

	again, err := uc.Place(ctx, cartID)
	require.NoError(t, err)
	require.NotEqual(t, a.OrderID, again.OrderID)

	attempts, err := uc.Attempts(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
}

func TestInvalidCartID(t *testing.T) {
	uc, _, _ := newTestUsecase(100000)
	_, err := uc.Quote(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidInput)
}

type switchableRates struct {
	rates staticRates
	down  bool
}

func (s *switchableRates) Rates(ctx context.Context, req shippinguc.RateRequest) ([]shippinguc.Option, error) {
	if s.down {
		return nil, errors.New("provider unavailable")
	}
	return s.rates.Rates(ctx, req)
}

func TestPlace_VanishedShippingChoiceIsNotReplaced(t *testing.T) {
	c := &cartuc.Cart{Items: []cartuc.Item{
		{ProductID: "h1", Name: "KYT TT Course", Price: 250000, Quantity: 2, Size: "M", WeightGrams: 1500},
	}}
	rates := &switchableRates{rates: staticRates{
		{Courier: "jne", Service: "REG", Cost: 15000},
		{Courier: "jne", Service: "YES", Cost: 32000},
	}}
	ship := shippinguc.New(rates, shippinguc.Config{Origin: "151", Couriers: []string{"jne"}}, nil)
	promos := tablePromos(promouc.DefaultRules())
	payments := &fakePayments{}
	uc := New(memDrafts{}, fixedCarts{cart: c}, ship, promos, orderuc.NewAssembler(promos, 1000), payments, nil)

	ctx := context.Background()
	cartID := uuid.NewString()
	_, err := uc.SetCustomer(ctx, cartID, customer())
	require.NoError(t, err)
	q, err := uc.SelectShipping(ctx, cartID, "jne:YES")
	require.NoError(t, err)
	require.Equal(t, int64(32000), q.Selected.Cost)

	// provider fails; only the fallback table is offered now
	rates.down = true

	q, err = uc.Quote(ctx, cartID)
	require.NoError(t, err)
	require.Nil(t, q.Selected)
	require.Contains(t, q.Missing, "shipping")

	_, err = uc.Place(ctx, cartID)
	var ve *orderuc.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"shipping"}, ve.Fields)
	require.Empty(t, payments.begun)
}
