package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	authuc "github.com/riolentius/hideki-store-backend/internal/usecase/auth"
)

type LoginUsecase interface {
	Execute(ctx context.Context, email, password string) (*authuc.LoginResult, error)
}

type AdminLoginHandler struct {
	uc LoginUsecase
}

func NewAdminLoginHandler(uc LoginUsecase) *AdminLoginHandler {
	return &AdminLoginHandler{uc: uc}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminLoginHandler) Handle(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	res, err := h.uc.Execute(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, authuc.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, authuc.ErrInactiveAdmin):
		return fiber.NewError(fiber.StatusForbidden, "admin inactive")
	case err != nil:
		return err
	}

	return c.JSON(res)
}
