package controllers

import (
	"doctor-survey-targeting/config"
	"doctor-survey-targeting/middleware"
	"doctor-survey-targeting/predictions/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RenderIndexController starts a fresh page view with an empty state.
func (pc *PredictionController) RenderIndexController(c *fiber.Ctx) error {
	return renderPage(c, pc.NewViewID(), "", models.ViewState{})
}

// RenderViewController renders the current state of an existing page view.
func (pc *PredictionController) RenderViewController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	state, err := pc.Orchestrator.State(c.UserContext(), viewID)
	if err != nil {
		config.Logger.Error("Failed to load view state", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load view state"})
	}
	return renderPage(c, viewID, "", state)
}
