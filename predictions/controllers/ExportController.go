package controllers

import (
	"fmt"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCsvController downloads the view's results as CSV. With no results it
// answers 204 and the browser stays where it is.
func (pc *PredictionController) ExportCsvController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	content, filename, ok, err := pc.Orchestrator.ExportCSV(c.UserContext(), viewID)
	if err != nil {
		config.Logger.Error("Failed to export CSV", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export CSV"})
	}
	if !ok {
		c.Status(fiber.StatusNoContent)
		return nil
	}

	c.Set(fiber.HeaderContentType, "text/csv;charset=utf-8;")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).SendString(content)
}

// ExportExcelController downloads the view's results as an XLSX workbook.
func (pc *PredictionController) ExportExcelController(c *fiber.Ctx) error {
	viewID := middleware.ViewID(c)

	content, filename, ok, err := pc.Orchestrator.ExportExcel(c.UserContext(), viewID)
	if err != nil {
		config.Logger.Error("Failed to export Excel", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export Excel"})
	}
	if !ok {
		c.Status(fiber.StatusNoContent)
		return nil
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(content)
}
