package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	applog "linkcut/internal/logger"
)

// NewApp wires the routes. The redirect route is registered last so the API
// and health paths are matched before the catch-all code parameter.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(applog.FiberMiddleware())
	app.Use(cors.New())

	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Post("/links", h.CreateLink)
	api.Get("/links", h.ListLinks)
	api.Delete("/links/:code", h.DeleteLink)

	app.Get("/:code", h.Redirect)

	return app
}
