package checkout

import (
	"time"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

// Draft is the shopper's in-progress checkout, kept per cart so a failed
// payment attempt can be retried without re-entering anything.
type Draft struct {
	CartID     string               `json:"cartId"`
	Customer   orderuc.CustomerInfo `json:"customer"`
	ShippingID string               `json:"shippingId,omitempty"`
	PromoCode  string               `json:"promoCode,omitempty"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

type Quote struct {
	Cart           *cartuc.Summary      `json:"cart"`
	Customer       orderuc.CustomerInfo `json:"customer"`
	Shipping       *shippinguc.Quote    `json:"shipping,omitempty"`
	Selected       *shippinguc.Option   `json:"selectedShipping,omitempty"`
	Promo          *promouc.Applied     `json:"promo,omitempty"`
	PromoRejection *promouc.Rejection   `json:"promoRejection,omitempty"`
	Totals         orderuc.Totals       `json:"totals"`
	Missing        []string             `json:"missing,omitempty"`
}

func (q *Quote) Ready() bool {
	return len(q.Missing) == 0
}
