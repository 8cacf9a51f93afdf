package order

import (
	"errors"
	"strings"
	"time"

	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type CustomerInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	DestinationCity string `json:"destinationCity"` // rate-provider city code
	CityName        string `json:"cityName,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
}

// Transaction is the immutable order submitted to the payment gateway.
type Transaction struct {
	OrderID       string            `json:"orderId"`
	Items         []cartuc.Item     `json:"items"`
	Subtotal      int64             `json:"subtotal"`
	PromoCode     string            `json:"promoCode,omitempty"`
	PromoDiscount int64             `json:"promoDiscount"`
	Shipping      shippinguc.Option `json:"shipping"`
	ShippingCost  int64             `json:"shippingCost"`
	AdminFee      int64             `json:"adminFee"`
	GrossTotal    int64             `json:"grossTotal"`
	Customer      CustomerInfo      `json:"customer"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	Discount     int64 `json:"promoDiscount"`
	ShippingCost int64 `json:"shippingCost"`
	AdminFee     int64 `json:"adminFee"`
	GrossTotal   int64 `json:"grossTotal"`
}

var ErrValidation = errors.New("validation failed")

// ValidationError names every field that blocks progression to payment.
type ValidationError struct {
	Fields []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
