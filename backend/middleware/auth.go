package middleware

import (
	"github.com/typerush/website/backend/config"
	"github.com/typerush/website/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the Locals key under which AuthMiddleware stores the
// authenticated user's ID for downstream handlers.
const UserIDKey = "userID"

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity resolved by AuthMiddleware.
func UserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals(UserIDKey).(uint)
	return userID
}
