package routes

import (
	"time"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewApp JSON hata yakalayıcısıyla bir fiber uygulaması kurar ve rotaları bağlar.
func NewApp(c *services.Container, debug bool) *fiber.App {
	response.SetDebug(debug)
	app := fiber.New(fiber.Config{
		AppName:      "kartvizit.link",
		ErrorHandler: response.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		BodyLimit:    1 << 20,
	})
	SetupRoutes(app, c)
	return app
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, c *services.Container) {
	// --- Genel Middleware'ler ---
	app.Use(recoverMiddleware.New(recoverMiddleware.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, e interface{}) {
			configslog.Log.Error("Panic yakalandı", zap.Any("panic", e), zap.String("path", ctx.Path()))
		},
	}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} (${latency})\n",
	}))

	// --- Rota Grupları ---
	registerAuthRoutes(app, c)       // /api/auth
	registerDashboardRoutes(app, c)  // /dashboard (platform operatörü)
	registerEnterpriseRoutes(app, c) // /api/enterprise (super_admin, admin)
	registerPanelRoutes(app, c)      // /api/panel (giriş yapmış her kullanıcı)
	registerPublicLinkRoutes(app, c) // /c/:slug

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	// --- 404 Handler ---
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(response.ErrorBody{Error: response.CodeNotFound, Message: "Kaynak bulunamadı"})
}
