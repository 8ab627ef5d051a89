package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/simcheck-go-api/internal/config"
	"github.com/noah-isme/simcheck-go-api/internal/handler"
	"github.com/noah-isme/simcheck-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	CheckHandler      *handler.CheckHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.AssignmentHandler != nil {
		assignments := app.Group("/api/v1/assignments")
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.SubmissionHandler != nil {
		submissions := app.Group("/api/v1/submissions")
		deps.SubmissionHandler.Register(submissions)

		// Checks hang off the submission resource.
		if deps.CheckHandler != nil {
			deps.CheckHandler.Register(submissions)
		}
	}
}
