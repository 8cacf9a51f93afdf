package promo

import (
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

type Rule struct {
	Code        string    `json:"code"`
	Type        Type      `json:"type"`
	Value       int64     `json:"value"`
	MinOrder    *int64    `json:"minOrder,omitempty"`
	MaxDiscount *int64    `json:"maxDiscount,omitempty"`
	IsActive    bool      `json:"isActive"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Applied struct {
	Rule     Rule  `json:"promo"`
	Discount int64 `json:"discount"`
}

type Reason string

const (
	ReasonNotFound           Reason = "PromoNotFound"
	ReasonMinimumOrderNotMet Reason = "MinimumOrderNotMet"
)

var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrMinimumOrderNotMet = errors.New("minimum order not met")
	ErrInvalidRule        = errors.New("invalid promo rule")
)

// Rejection explains why a code cannot be applied. It unwraps to the
// matching sentinel so callers can use errors.Is.
type Rejection struct {
	Code     string `json:"code"`
	Reason   Reason `json:"reason"`
	MinOrder int64  `json:"minOrder,omitempty"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonMinimumOrderNotMet:
		return fmt.Sprintf("promo %s requires a minimum order of %d", r.Code, r.MinOrder)
	default:
		return fmt.Sprintf("promo %s not found", r.Code)
	}
}

func (r *Rejection) Unwrap() error {
	if r.Reason == ReasonMinimumOrderNotMet {
		return ErrMinimumOrderNotMet
	}
	return ErrPromoNotFound
}

func int64Ptr(v int64) *int64 { return &v }

// DefaultRules is the launch promo table, also seeded by the initial migration.
func DefaultRules() []Rule {
	return []Rule{
		{
			Code:        "HIDEKI10",
			Type:        TypePercentage,
			Value:       10,
			MinOrder:    int64Ptr(500000),
			MaxDiscount: int64Ptr(100000),
			IsActive:    true,
			Description: "Diskon 10% hingga Rp100.000 untuk belanja minimal Rp500.000",
		},
		{
			Code:        "HELMBARU50",
			Type:        TypeFixed,
			Value:       50000,
			MinOrder:    int64Ptr(300000),
			IsActive:    true,
			Description: "Potongan Rp50.000 untuk belanja minimal Rp300.000",
		},
		{
			Code:        "RIDER20",
			Type:        TypePercentage,
			Value:       20,
			MinOrder:    int64Ptr(1500000),
			MaxDiscount: int64Ptr(250000),
			IsActive:    true,
			Description: "Diskon 20% hingga Rp250.000 untuk belanja minimal Rp1.500.000",
		},
		{
			Code:        "LEBARAN25",
			Type:        TypePercentage,
			Value:       25,
			IsActive:    false,
			Description: "Promo Lebaran (sudah berakhir)",
		},
	}
}
