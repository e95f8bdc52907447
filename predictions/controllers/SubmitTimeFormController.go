package controllers

import (
	"doctor-survey-targeting/config"
	"doctor-survey-targeting/middleware"
	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmitTimeFormController handles the HTML form post. An empty time field
// re-renders the page without contacting the prediction service.
func (pc *PredictionController) SubmitTimeFormController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	var form services.TimeForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form submission"})
	}

	var (
		state models.ViewState
		err   error
	)
	submitted := form.Submit(func(timeOfDay string) {
		state, err = pc.Orchestrator.HandlePrediction(c.UserContext(), viewID, timeOfDay)
	})
	if !submitted {
		state, err = pc.Orchestrator.State(c.UserContext(), viewID)
	}
	if err != nil {
		config.Logger.Error("Failed to update view state", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update view state"})
	}

	return renderPage(c, viewID, form.Time, state)
}
