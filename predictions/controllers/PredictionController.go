package controllers

import (
	"bytes"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/services"
	"doctor-survey-targeting/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PredictionController struct {
	Orchestrator *services.PredictionOrchestrator
	NewViewID    func() string
}

// renderPage writes the full page for a view as HTML.
func renderPage(c *fiber.Ctx, viewID, timeValue string, state models.ViewState) error {
	var buf bytes.Buffer
	if err := views.RenderPage(&buf, views.NewPageData(viewID, timeValue, state)); err != nil {
		config.Logger.Error("Failed to render page", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render page"})
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
