package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type PromoApplier interface {
	Apply(ctx context.Context, code string, subtotal int64) (*promouc.Applied, error)
}

type BuildInput struct {
	Cart      *cartuc.Cart
	Shipping  *shippinguc.Option
	PromoCode string
	Customer  CustomerInfo
}

type Assembler struct {
	promos   PromoApplier
	adminFee int64
	now      func() time.Time
	newID    func(time.Time) string
}

func NewAssembler(promos PromoApplier, adminFee int64) *Assembler {
	return &Assembler{
		promos:   promos,
		adminFee: adminFee,
		now:      time.Now,
		newID:    NewOrderID,
	}
}

func (a *Assembler) AdminFee() int64 {
	return a.adminFee
}

// NewOrderID mints HDK-<yyyymmdd>-<8 hex> for one attempt. Collisions are
// caught by the unique order id in the attempt store.
func NewOrderID(at time.Time) string {
	return "HDK-" + at.Format("20060102") + "-" + uuid.NewString()[:8]
}

// ComputeTotals is the only place the chargeable amount is derived.
// Discount is clamped to the subtotal so the gross total cannot go negative.
func ComputeTotals(subtotal, discount, shippingCost, adminFee int64) Totals {
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: shippingCost,
		AdminFee:     adminFee,
		GrossTotal:   subtotal - discount + shippingCost + adminFee,
	}
}

// Build validates the checkout preconditions and assembles a fresh
// transaction. Order: subtotal, promo discount, shipping, admin fee, total.
func (a *Assembler) Build(ctx context.Context, in BuildInput) (*Transaction, error) {
	fields := ValidateCustomer(in.Customer)
	if in.Cart == nil || in.Cart.IsEmpty() {
		fields = append([]string{"cart"}, fields...)
	}
	if in.Shipping == nil {
		fields = append(fields, "shipping")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	subtotal := in.Cart.TotalPrice()

	var (
		discount  int64
		promoCode string
	)
	if code := promouc.NormalizeCode(in.PromoCode); code != "" {
		applied, err := a.promos.Apply(ctx, code, subtotal)
		var rej *promouc.Rejection
		if errors.As(err, &rej) {
			return nil, &ValidationError{Fields: []string{"promoCode"}}
		}
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		promoCode = applied.Rule.Code
	}

	totals := ComputeTotals(subtotal, discount, in.Shipping.Cost, a.adminFee)
	now := a.now().UTC()

	return &Transaction{
		OrderID:       a.newID(now),
		Items:         append([]cartuc.Item(nil), in.Cart.Items...),
		Subtotal:      totals.Subtotal,
		PromoCode:     promoCode,
		PromoDiscount: totals.Discount,
		Shipping:      *in.Shipping,
		ShippingCost:  totals.ShippingCost,
		AdminFee:      totals.AdminFee,
		GrossTotal:    totals.GrossTotal,
		Customer:      in.Customer,
		CreatedAt:     now,
	}, nil
}

// ValidateCustomer lists missing or malformed customer fields.
func ValidateCustomer(c CustomerInfo) []string {
	var fields []string
	if strings.TrimSpace(c.Name) == "" {
		fields = append(fields, "name")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, "email")
	}
	if !validPhone(c.Phone) {
		fields = append(fields, "phone")
	}
	if strings.TrimSpace(c.Address) == "" {
		fields = append(fields, "address")
	}
	if strings.TrimSpace(c.DestinationCity) == "" {
		fields = append(fields, "destinationCity")
	}
	return fields
}

func validPhone(p string) bool {
	p = strings.TrimPrefix(strings.TrimSpace(p), "+")
	if len(p) < 8 {
		return false
	}
	for _, r := range p {
		if (r < '0' || r > '9') && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}
