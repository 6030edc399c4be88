package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/mangiaebasta/internal/utils"
)

const userContextKey = "currentUserID"

type sidBody struct {
	SID string `json:"sid"`
}

// SessionMiddleware validates the sid, taken from the query string or the
// JSON body, and loads the authenticated user ID into context.
func SessionMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Query("sid")
		if sid == "" && len(c.Body()) > 0 {
			var body sidBody
			if err := c.BodyParser(&body); err == nil {
				sid = body.SID
			}
		}
		if sid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing sid")
		}

		uid, err := utils.ParseSID(secret, sid)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid sid")
		}

		c.Locals(userContextKey, uid)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(userContextKey).(uint)
	return id, ok && id != 0
}
