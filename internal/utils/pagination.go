package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParseLimit reads the limit query param, falling back to max when it is
// missing, invalid or above max.
func ParseLimit(c *fiber.Ctx, max int) int {
	limit := parseInt(c.Query("limit"), max)
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
