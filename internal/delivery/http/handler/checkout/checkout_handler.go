package checkout

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/riolentius/hideki-store-backend/internal/delivery/middleware"
	checkoutuc "github.com/riolentius/hideki-store-backend/internal/usecase/checkout"
	orderuc "github.com/riolentius/hideki-store-backend/internal/usecase/order"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
	shippinguc "github.com/riolentius/hideki-store-backend/internal/usecase/shipping"
)

type Usecase interface {
	Quote(ctx context.Context, cartID string) (*checkoutuc.Quote, error)
	SetCustomer(ctx context.Context, cartID string, info orderuc.CustomerInfo) (*checkoutuc.Quote, error)
	SelectShipping(ctx context.Context, cartID, optionID string) (*checkoutuc.Quote, error)
	ApplyPromo(ctx context.Context, cartID, code string) (*checkoutuc.Quote, error)
	RemovePromo(ctx context.Context, cartID string) (*checkoutuc.Quote, error)
	Place(ctx context.Context, cartID string) (*paymentuc.Attempt, error)
	Attempts(ctx context.Context, cartID string) ([]paymentuc.Attempt, error)
}

type Handler struct {
	uc Usecase
}

func New(uc Usecase) *Handler {
	return &Handler{uc: uc}
}

// respondErr writes the structured 422 bodies itself; everything else is
// turned into a fiber error for the app error handler.
func respondErr(c *fiber.Ctx, err error) error {
	var ve *orderuc.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  ve.Error(),
			"fields": ve.Fields,
		})
	}
	var rej *promouc.Rejection
	if errors.As(err, &rej) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     rej.Error(),
			"rejection": rej,
		})
	}

	switch {
	case errors.Is(err, checkoutuc.ErrInvalidInput), errors.Is(err, shippinguc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, shippinguc.ErrOptionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, promouc.ErrInvalidRule):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (h *Handler) Quote(c *fiber.Ctx) error {
	out, err := h.uc.Quote(c.UserContext(), middleware.CartIDFrom(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}

func (h *Handler) SetCustomer(c *fiber.Ctx) error {
	var req orderuc.CustomerInfo
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.SetCustomer(c.UserContext(), middleware.CartIDFrom(c), req)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}

type selectShippingRequest struct {
	OptionID string `json:"optionId"`
}

func (h *Handler) SelectShipping(c *fiber.Ctx) error {
	var req selectShippingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.SelectShipping(c.UserContext(), middleware.CartIDFrom(c), req.OptionID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}

type applyPromoRequest struct {
	Code string `json:"code"`
}

func (h *Handler) ApplyPromo(c *fiber.Ctx) error {
	var req applyPromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.ApplyPromo(c.UserContext(), middleware.CartIDFrom(c), req.Code)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}

func (h *Handler) RemovePromo(c *fiber.Ctx) error {
	out, err := h.uc.RemovePromo(c.UserContext(), middleware.CartIDFrom(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(out)
}

// Place answers 502 with the failed attempt when the gateway is down; the
// cart and draft are untouched so the shopper can simply retry.
func (h *Handler) Place(c *fiber.Ctx) error {
	a, err := h.uc.Place(c.UserContext(), middleware.CartIDFrom(c))
	if errors.Is(err, paymentuc.ErrGatewayUnavailable) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":     "payment gateway unavailable, please try again",
			"retryable": true,
			"attempt":   a,
		})
	}
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attempt": a,
		"view":    a.View(),
	})
}

func (h *Handler) Attempts(c *fiber.Ctx) error {
	items, err := h.uc.Attempts(c.UserContext(), middleware.CartIDFrom(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}
