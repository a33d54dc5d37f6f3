package routes

import (
	handlers "kartvizit.link/handlers/dashboard"
	"kartvizit.link/middlewares"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes /dashboard altındaki rotalar. Sadece X-Operator-Key ile erişilir.
func registerDashboardRoutes(app *fiber.App, c *services.Container) {
	enterpriseHandler := handlers.NewEnterpriseHandler(c)
	requestHandler := handlers.NewLicenseRequestHandler(c)
	userHandler := handlers.NewUserHandler(c)

	dashboardGroup := app.Group("/dashboard")
	dashboardGroup.Use(middlewares.RequireOperator(c.Operator))

	// --- Kurumlar ---
	dashboardGroup.Get("/enterprises", enterpriseHandler.ListEnterprises)            // GET /dashboard/enterprises
	dashboardGroup.Post("/enterprises", enterpriseHandler.CreateEnterprise)          // POST /dashboard/enterprises
	dashboardGroup.Get("/enterprises/:id", enterpriseHandler.GetEnterprise)          // GET /dashboard/enterprises/{id}
	dashboardGroup.Patch("/enterprises/:id/capacity", enterpriseHandler.SetCapacity) // PATCH /dashboard/enterprises/{id}/capacity
	dashboardGroup.Get("/enterprises/:id/usage", enterpriseHandler.Usage)            // GET /dashboard/enterprises/{id}/usage
	dashboardGroup.Get("/enterprises/:id/cards", enterpriseHandler.ListCards)        // GET /dashboard/enterprises/{id}/cards
	dashboardGroup.Post("/enterprises/:id/users", enterpriseHandler.ProvisionUser)   // POST /dashboard/enterprises/{id}/users

	// --- Lisans Talepleri ---
	dashboardGroup.Get("/license-requests", requestHandler.ListRequests)         // GET /dashboard/license-requests?status=
	dashboardGroup.Post("/license-requests/:id/approve", requestHandler.Approve) // POST /dashboard/license-requests/{id}/approve
	dashboardGroup.Post("/license-requests/:id/reject", requestHandler.Reject)   // POST /dashboard/license-requests/{id}/reject

	// --- Kurumlar Arası Kullanıcı / Kart ---
	dashboardGroup.Post("/users/:id/move", userHandler.MoveUser)              // POST /dashboard/users/{id}/move
	dashboardGroup.Put("/users/:id/sub-licenses", userHandler.SetSubLicenses) // PUT /dashboard/users/{id}/sub-licenses
	dashboardGroup.Post("/cards/:id/reassign", userHandler.ReassignCard)      // POST /dashboard/cards/{id}/reassign
}
