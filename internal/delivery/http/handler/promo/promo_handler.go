package promo

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	promouc "github.com/riolentius/hideki-store-backend/internal/usecase/promo"
)

type Usecase interface {
	List(ctx context.Context) ([]promouc.Rule, error)
	Upsert(ctx context.Context, r promouc.Rule) (*promouc.Rule, error)
	Deactivate(ctx context.Context, code string) error
}

type Handler struct {
	uc Usecase
}

func New(uc Usecase) *Handler {
	return &Handler{uc: uc}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, promouc.ErrInvalidRule):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, promouc.ErrPromoNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *Handler) Upsert(c *fiber.Ctx) error {
	var req promouc.Rule
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Upsert(c.UserContext(), req)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), c.Params("code")); err != nil {
		return mapErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
