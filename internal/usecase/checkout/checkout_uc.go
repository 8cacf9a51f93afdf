package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

var ErrInvalidInput = errors.New("invalid input")

type DraftStore interface {
	// Get returns an empty draft when none has been saved for cartID.
	Get(ctx context.Context, cartID string) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
}

type Carts interface {
	Get(ctx context.Context, cartID string) (*cartuc.Summary, error)
}

type ShippingQuoter interface {
	Options(ctx context.Context, destination string, actualWeightGrams int) (*shippinguc.Quote, error)
}

type OrderBuilder interface {
	Build(ctx context.Context, in orderuc.BuildInput) (*orderuc.Transaction, error)
	AdminFee() int64
}

type Payments interface {
	Begin(ctx context.Context, txn *orderuc.Transaction, cartID string) (*paymentuc.Attempt, error)
	ListByCart(ctx context.Context, cartID string) ([]paymentuc.Attempt, error)
}

type Usecase struct {
	drafts   DraftStore
	carts    Carts
	shipping ShippingQuoter
	promos   orderuc.PromoApplier
	orders   OrderBuilder
	payments Payments
	log      *zap.Logger
}

func New(drafts DraftStore, carts Carts, shipping ShippingQuoter, promos orderuc.PromoApplier, orders OrderBuilder, payments Payments, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		drafts:   drafts,
		carts:    carts,
		shipping: shipping,
		promos:   promos,
		orders:   orders,
		payments: payments,
		log:      log,
	}
}

func validCartID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Quote prices the current cart and draft without side effects. A promo
// that stopped applying is reported in PromoRejection and not discounted.
func (u *Usecase) Quote(ctx context.Context, cartID string) (*Quote, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return u.quote(ctx, cartID, d)
}

func (u *Usecase) quote(ctx context.Context, cartID string, d *Draft) (*Quote, error) {
	sum, err := u.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Cart:     sum,
		Customer: d.Customer,
		Missing:  orderuc.ValidateCustomer(d.Customer),
	}
	if sum.Cart.IsEmpty() {
		q.Missing = append([]string{"cart"}, q.Missing...)
	}

	var discount int64
	if d.PromoCode != "" {
		applied, err := u.promos.Apply(ctx, d.PromoCode, sum.Subtotal)
		var rej *promouc.Rejection
		switch {
		case errors.As(err, &rej):
			q.PromoRejection = rej
		case err != nil:
			return nil, err
		default:
			q.Promo = applied
			discount = applied.Discount
		}
	}

	var shippingCost int64
	if dest := strings.TrimSpace(d.Customer.DestinationCity); dest != "" && !sum.Cart.IsEmpty() {
		sq, err := u.shipping.Options(ctx, dest, sum.Cart.WeightGrams())
		if err != nil {
			return nil, err
		}
		q.Shipping = sq
		q.Selected = sq.Default
		if d.ShippingID != "" {
			// a saved choice that is no longer offered must be re-selected,
			// never swapped for another courier
			opt, err := shippinguc.Find(sq.Options, d.ShippingID)
			if err != nil {
				u.log.Warn("selected shipping option no longer offered",
					zap.String("cart_id", cartID),
					zap.String("shipping_id", d.ShippingID))
			}
			q.Selected = opt
		}
	}
	if q.Selected != nil {
		shippingCost = q.Selected.Cost
	} else {
		q.Missing = append(q.Missing, "shipping")
	}

	q.Totals = orderuc.ComputeTotals(sum.Subtotal, discount, shippingCost, u.orders.AdminFee())
	return q, nil
}

func (u *Usecase) SetCustomer(ctx context.Context, cartID string, info orderuc.CustomerInfo) (*Quote, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	info.DestinationCity = strings.TrimSpace(info.DestinationCity)

	// a different destination invalidates the chosen rate
	if info.DestinationCity != d.Customer.DestinationCity {
		d.ShippingID = ""
	}
	d.CartID = cartID
	d.Customer = info
	if err := u.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return u.quote(ctx, cartID, d)
}

func (u *Usecase) SelectShipping(ctx context.Context, cartID, optionID string) (*Quote, error) {
	if !validCartID(cartID) || strings.TrimSpace(optionID) == "" {
		return nil, ErrInvalidInput
	}
	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Customer.DestinationCity) == "" {
		return nil, &orderuc.ValidationError{Fields: []string{"destinationCity"}}
	}
	sum, err := u.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if sum.Cart.IsEmpty() {
		return nil, &orderuc.ValidationError{Fields: []string{"cart"}}
	}

	sq, err := u.shipping.Options(ctx, d.Customer.DestinationCity, sum.Cart.WeightGrams())
	if err != nil {
		return nil, err
	}
	opt, err := shippinguc.Find(sq.Options, optionID)
	if err != nil {
		return nil, err
	}

	d.CartID = cartID
	d.ShippingID = opt.ID()
	if err := u.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return u.quote(ctx, cartID, d)
}

// ApplyPromo replaces any previously applied code. A rejected code leaves
// the draft exactly as it was.
func (u *Usecase) ApplyPromo(ctx context.Context, cartID, code string) (*Quote, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	sum, err := u.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	applied, err := u.promos.Apply(ctx, code, sum.Subtotal)
	if err != nil {
		return nil, err
	}

	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	d.CartID = cartID
	d.PromoCode = applied.Rule.Code
	if err := u.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return u.quote(ctx, cartID, d)
}

func (u *Usecase) RemovePromo(ctx context.Context, cartID string) (*Quote, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	d.CartID = cartID
	d.PromoCode = ""
	if err := u.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return u.quote(ctx, cartID, d)
}

// Place builds a fresh order from the cart and draft and opens a payment
// attempt for it. Each call mints a new order id.
func (u *Usecase) Place(ctx context.Context, cartID string) (*paymentuc.Attempt, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	d, err := u.drafts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	q, err := u.quote(ctx, cartID, d)
	if err != nil {
		return nil, err
	}

	txn, err := u.orders.Build(ctx, orderuc.BuildInput{
		Cart:      q.Cart.Cart,
		Shipping:  q.Selected,
		PromoCode: d.PromoCode,
		Customer:  d.Customer,
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("placing order",
		zap.String("order_id", txn.OrderID),
		zap.String("cart_id", cartID),
		zap.Int64("gross_total", txn.GrossTotal),
	)
	return u.payments.Begin(ctx, txn, cartID)
}

func (u *Usecase) Attempts(ctx context.Context, cartID string) ([]paymentuc.Attempt, error) {
	if !validCartID(cartID) {
		return nil, ErrInvalidInput
	}
	return u.payments.ListByCart(ctx, cartID)
}
