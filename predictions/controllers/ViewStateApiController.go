package controllers

import (
	"doctor-survey-targeting/config"
	"doctor-survey-targeting/middleware"
	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetViewStateController returns {results, loading, error} for a view.
func (pc *PredictionController) GetViewStateController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	state, err := pc.Orchestrator.State(c.UserContext(), viewID)
	if err != nil {
		config.Logger.Error("Failed to load view state", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load view state"})
	}
	return c.Status(fiber.StatusOK).JSON(state.Payload())
}

// CreatePredictionController runs a prediction for a view from a JSON or form
// body carrying "time", and returns the resulting state. Prediction failures
// are part of the state, so the status is 200 for them as well.
func (pc *PredictionController) CreatePredictionController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	var form services.TimeForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var (
		state models.ViewState
		err   error
	)
	if !form.Submit(func(timeOfDay string) {
		state, err = pc.Orchestrator.HandlePrediction(c.UserContext(), viewID, timeOfDay)
	}) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "time is required"})
	}
	if err != nil {
		config.Logger.Error("Failed to update view state", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update view state"})
	}

	return c.Status(fiber.StatusOK).JSON(state.Payload())
}
