package routes

import (
	"doctor-survey-targeting/middleware"
	"doctor-survey-targeting/predictions/controllers"
	"doctor-survey-targeting/predictions/services"

	"github.com/gofiber/fiber/v2"
)

func PredictionRouterInit(
	app *fiber.App,
	orchestrator *services.PredictionOrchestrator,
) {
	predictionController := &controllers.PredictionController{
		Orchestrator: orchestrator,
		NewViewID:    middleware.NewViewID,
	}

	app.Get("/", predictionController.RenderIndexController)

	viewRoutes := app.Group("/views/:view")
	viewRoutes.Get("/", middleware.RequireViewID, predictionController.RenderViewController)
	viewRoutes.Post("/predict", middleware.RequireViewID, predictionController.SubmitTimeFormController)
	viewRoutes.Get("/export.csv", middleware.RequireViewID, predictionController.ExportCsvController)
	viewRoutes.Get("/export.xlsx", middleware.RequireViewID, predictionController.ExportExcelController)

	apiRoutes := app.Group("/api/views/:view")
	apiRoutes.Get("/state", middleware.RequireViewID, predictionController.GetViewStateController)
	apiRoutes.Post("/predictions", middleware.RequireViewID, predictionController.CreatePredictionController)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
