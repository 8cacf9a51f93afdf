package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CartHeader   = "X-Cart-ID"
	cartLocalKey = "cart_id"
)

// CartID resolves the anonymous cart from X-Cart-ID, minting one when the
// header is absent. The id is echoed back so the storefront can keep it.
func CartID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(CartHeader))
		if id == "" {
			id = uuid.NewString()
		} else if _, err := uuid.Parse(id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cart id")
		}
		c.Locals(cartLocalKey, id)
		c.Set(CartHeader, id)
		return c.Next()
	}
}

func CartIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(cartLocalKey).(string)
	return id
}
