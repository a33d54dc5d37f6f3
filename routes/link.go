package routes

import (
	handlers "kartvizit.link/handlers/link"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerPublicLinkRoutes herkese açık kart sayfası ve bağlantı bırakma.
func registerPublicLinkRoutes(app *fiber.App, c *services.Container) {
	linkHandler := handlers.NewLinkHandler(c)

	app.Get("/c/:slug", linkHandler.HandleLink)
	app.Post("/c/:slug/connections", linkHandler.CaptureConnection)
}
