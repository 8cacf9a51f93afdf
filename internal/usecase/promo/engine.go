package promo

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply looks code up in rules and evaluates it against subtotal.
// Inactive rules are invisible to the lookup.
func Apply(rules []Rule, code string, subtotal int64) (*Applied, error) {
	want := NormalizeCode(code)
	for _, r := range rules {
		if r.IsActive && NormalizeCode(r.Code) == want {
			return Evaluate(r, subtotal)
		}
	}
	return nil, &Rejection{Code: want, Reason: ReasonNotFound}
}

// Evaluate checks eligibility of an active rule and computes its discount.
func Evaluate(r Rule, subtotal int64) (*Applied, error) {
	if !r.IsActive {
		return nil, &Rejection{Code: NormalizeCode(r.Code), Reason: ReasonNotFound}
	}
	if r.MinOrder != nil && subtotal < *r.MinOrder {
		return nil, &Rejection{Code: NormalizeCode(r.Code), Reason: ReasonMinimumOrderNotMet, MinOrder: *r.MinOrder}
	}
	return &Applied{Rule: r, Discount: Discount(r, subtotal)}, nil
}

// Discount is always within [0, subtotal]. Percentages round half-up to
// whole rupiah before the cap is applied.
func Discount(r Rule, subtotal int64) int64 {
	if subtotal <= 0 || r.Value <= 0 {
		return 0
	}

	var d int64
	switch r.Type {
	case TypePercentage:
		d = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(r.Value)).
			Div(hundred).
			Round(0).
			IntPart()
		if r.MaxDiscount != nil && d > *r.MaxDiscount {
			d = *r.MaxDiscount
		}
	case TypeFixed:
		d = r.Value
	}

	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}
