package routes

import (
	authHandlers "kartvizit.link/handlers/auth"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, c *services.Container) {
	authHandler := authHandlers.NewAuthHandler(c)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", authHandler.Login)       // POST /api/auth/login
	authGroup.Post("/register", authHandler.Register) // POST /api/auth/register
}
