package product

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	productuc "github.com/riolentius/hideki-store-backend/internal/usecase/product"
)

type Usecase interface {
	Create(ctx context.Context, in productuc.CreateInput) (*productuc.Product, error)
	Get(ctx context.Context, id string) (*productuc.Product, error)
	List(ctx context.Context, q productuc.ListQuery) ([]productuc.Product, error)
}

type Handler struct {
	uc Usecase
}

func New(uc Usecase) *Handler {
	return &Handler{uc: uc}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, productuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, productuc.ErrNotFound), errors.Is(err, productuc.ErrInactive):
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	default:
		return err
	}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req productuc.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Create(c.UserContext(), req)
	if err != nil {
		return mapErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	q := productuc.ListQuery{Limit: limit, Offset: offset}
	if k := c.Query("kind"); k != "" {
		kind := productuc.Kind(k)
		q.Kind = &kind
	}

	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}
