package payment

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type Reconciler interface {
	Get(ctx context.Context, orderID string) (*paymentuc.Attempt, error)
	Resolve(ctx context.Context, orderID string, out paymentuc.Outcome) (*paymentuc.Attempt, error)
	Recheck(ctx context.Context, orderID string) (*paymentuc.Attempt, error)
	HandleNotification(ctx context.Context, n paymentuc.Notification) (*paymentuc.Attempt, error)
}

type Handler struct {
	uc  Reconciler
	log *zap.Logger
}

func New(uc Reconciler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{uc: uc, log: log}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, paymentuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, paymentuc.ErrAttemptNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, paymentuc.ErrAlreadyResolved), errors.Is(err, paymentuc.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, paymentuc.ErrGatewayUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, paymentuc.ErrInvalidSignature):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, paymentuc.ErrAmountMismatch):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func attemptView(a *paymentuc.Attempt) fiber.Map {
	return fiber.Map{"attempt": a, "view": a.View()}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	a, err := h.uc.Get(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(attemptView(a))
}

// Outcome receives the single result of the payment popup. Error and
// closed outcomes are normal answers (200) carrying the new state.
func (h *Handler) Outcome(c *fiber.Ctx) error {
	var req paymentuc.Outcome
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	a, err := h.uc.Resolve(c.UserContext(), c.Params("orderId"), req)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(attemptView(a))
}

func (h *Handler) Recheck(c *fiber.Ctx) error {
	a, err := h.uc.Recheck(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(attemptView(a))
}

func (h *Handler) Notification(c *fiber.Ctx) error {
	var n paymentuc.Notification
	if err := c.BodyParser(&n); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	a, err := h.uc.HandleNotification(c.UserContext(), n)
	if err != nil {
		h.log.Warn("payment notification rejected",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
			zap.Error(err))
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"orderId": a.OrderID, "state": a.State})
}
