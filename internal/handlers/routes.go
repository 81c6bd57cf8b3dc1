package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, cvHandler *CVHandler, emailHandler *EmailHandler) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/cvs/save", cvHandler.HandleSave)
	api.Post("/cvs/extract", cvHandler.HandleExtract)
	api.Post("/emails/generate", emailHandler.HandleGenerate)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Rcruit Flow API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/cvs/save",
				"POST /api/v1/cvs/extract",
				"POST /api/v1/emails/generate",
				"GET /api/v1/health",
			},
		})
	})
}
