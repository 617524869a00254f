package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes - HTTP API and the viewer websocket
func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Grid duel server is running.")
	})

	api := app.Group("/api")
	api.Get("/health", HandleHealth)
	api.Get("/state", HandleState)
	api.Get("/cell", HandleCell)
	api.Post("/move", HandleMove)
	api.Post("/session/reset", HandleReset)

	// stateless path query
	api.Post("/pathfinding", HandlePathfinding)

	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)
	logsAPI.Get("/range", HandleGetLogsByTimeRange)
	logsAPI.Get("/type", HandleGetLogsByEventType)
	logsAPI.Get("/stats", HandleGetLogStats)

	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/web", websocket.New(HandleWebClientWebSocket))
}
