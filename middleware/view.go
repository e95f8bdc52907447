package middleware

import (
	"doctor-survey-targeting/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// viewIDKey is the c.Locals key holding the validated page view ID.
const viewIDKey = "viewID"

// NewViewID mints the identifier of a fresh page view.
func NewViewID() string {
	return uuid.NewString()
}

// RequireViewID validates the :view route parameter and stores it for ViewID.
func RequireViewID(c *fiber.Ctx) error {
	raw := c.Params("view")
	id, err := uuid.Parse(raw)
	if err != nil {
		config.Logger.Warn("Invalid view ID format", zap.String("viewID", raw))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid view ID"})
	}
	c.Locals(viewIDKey, id.String())
	return c.Next()
}

// ViewID returns the view ID stored by RequireViewID.
func ViewID(c *fiber.Ctx) string {
	id, _ := c.Locals(viewIDKey).(string)
	return id
}
