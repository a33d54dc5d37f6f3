package routes

import (
	handlers "kartvizit.link/handlers/panel"
	"kartvizit.link/middlewares"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes /api/panel altındaki rotalar; kullanıcının kendi kartları ve bağlantıları.
func registerPanelRoutes(app *fiber.App, c *services.Container) {
	cardHandler := handlers.NewPanelCardHandler(c)
	connectionHandler := handlers.NewPanelConnectionHandler(c)

	panelGroup := app.Group("/api/panel")
	panelGroup.Use(middlewares.AuthMiddleware(c.Identity))

	panelGroup.Get("/me", cardHandler.Me)

	panelGroup.Get("/cards", cardHandler.ListCards)
	panelGroup.Post("/cards", cardHandler.CreateCard)
	panelGroup.Get("/cards/:id", cardHandler.GetCard)
	panelGroup.Post("/cards/:id/suspend", cardHandler.SuspendCard)
	panelGroup.Post("/cards/:id/reactivate", cardHandler.ReactivateCard)
	panelGroup.Delete("/cards/:id", cardHandler.DeleteCard)

	panelGroup.Get("/connections", connectionHandler.ListConnections)
}
