package routes

import (
	handlers "kartvizit.link/handlers/enterprise"
	"kartvizit.link/middlewares"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerEnterpriseRoutes /api/enterprise altındaki rotalar. super_admin ve admin erişir;
// kapsam kontrolleri servis katmanındadır.
func registerEnterpriseRoutes(app *fiber.App, c *services.Container) {
	enterpriseHandler := handlers.NewEnterpriseHandler(c)
	userHandler := handlers.NewUserHandler(c)
	cardHandler := handlers.NewCardHandler(c)

	group := app.Group("/api/enterprise")
	group.Use(
		middlewares.AuthMiddleware(c.Identity), // 1. Giriş yapmış mı?
		middlewares.RequireEnterpriseManager(), // 2. Kurum yöneticisi mi?
	)

	// --- Kurum ---
	group.Get("/", enterpriseHandler.GetEnterprise)
	group.Patch("/", middlewares.RequireSuperAdmin(), enterpriseHandler.UpdateEnterprise)
	group.Get("/usage", enterpriseHandler.Usage)

	// --- Kullanıcılar ---
	group.Get("/users", userHandler.ListUsers)
	group.Post("/users", userHandler.CreateUser)
	group.Put("/users/:id/sub-licenses", userHandler.SetSubLicenses)
	group.Put("/users/:id/role", middlewares.RequireSuperAdmin(), userHandler.ChangeRole)
	group.Post("/users/:id/suspend", userHandler.SuspendUser)
	group.Post("/users/:id/reactivate", userHandler.ReactivateUser)
	group.Delete("/users/:id", userHandler.DeleteUser) // ?detach=true
	group.Post("/users/:id/cards", cardHandler.CreateProductCard)

	// --- Kartlar ---
	group.Get("/cards", cardHandler.ListCards)
	group.Post("/cards/:id/reassign", cardHandler.ReassignCard)
	group.Post("/cards/:id/suspend", cardHandler.SuspendCard)
	group.Post("/cards/:id/reactivate", cardHandler.ReactivateCard)
	group.Delete("/cards/:id", cardHandler.DeleteCard)

	// --- Lisans Talepleri ---
	requests := group.Group("/license-requests", middlewares.RequireSuperAdmin())
	requests.Get("/", enterpriseHandler.ListLicenseRequests)
	requests.Post("/", enterpriseHandler.SubmitLicenseRequest)
}
