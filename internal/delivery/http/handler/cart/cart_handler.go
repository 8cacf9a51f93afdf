package cart

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/riolentius/hideki-store-backend/internal/delivery/middleware"
	cartuc "github.com/riolentius/hideki-store-backend/internal/usecase/cart"
	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

type Usecase interface {
	Get(ctx context.Context, cartID string) (*cartuc.Summary, error)
	AddItem(ctx context.Context, cartID string, in cartuc.AddInput) (*cartuc.Summary, error)
	UpdateQuantity(ctx context.Context, cartID string, k cartuc.Key, quantity int) (*cartuc.Summary, error)
	RemoveItem(ctx context.Context, cartID string, k cartuc.Key) (*cartuc.Summary, error)
	Clear(ctx context.Context, cartID string) error
}

type Handler struct {
	uc Usecase
}

func New(uc Usecase) *Handler {
	return &Handler{uc: uc}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, cartuc.ErrInvalidInput), errors.Is(err, productuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, cartuc.ErrItemNotInCart):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, productuc.ErrNotFound), errors.Is(err, productuc.ErrInactive):
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	case errors.Is(err, cartuc.ErrSizeUnavailable):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), middleware.CartIDFrom(c))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	var req cartuc.AddInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.AddItem(c.UserContext(), middleware.CartIDFrom(c), req)
	if err != nil {
		return mapErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity addresses a line by :id and ?size=; quantity <= 0 removes it.
func (h *Handler) UpdateQuantity(c *fiber.Ctx) error {
	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	k := cartuc.Key{ProductID: c.Params("id"), Size: c.Query("size")}
	out, err := h.uc.UpdateQuantity(c.UserContext(), middleware.CartIDFrom(c), k, req.Quantity)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	k := cartuc.Key{ProductID: c.Params("id"), Size: c.Query("size")}
	out, err := h.uc.RemoveItem(c.UserContext(), middleware.CartIDFrom(c), k)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), middleware.CartIDFrom(c)); err != nil {
		return mapErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
