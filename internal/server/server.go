// Package server wires the HTTP routes and middleware onto a fiber app.
package server

import (
	"errors"
	"strings"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/audit"
	"furniture-admin/internal/auth"
	"furniture-admin/internal/chatbot"
	"furniture-admin/internal/config"
	"furniture-admin/internal/dashboard"
	"furniture-admin/internal/inventory"
	"furniture-admin/internal/models"
	"furniture-admin/internal/obs"
	"furniture-admin/internal/purchase"
	"furniture-admin/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Purchases *purchase.Service
	Chat      chatbot.Client
	Signer    *security.Signer
}

func New(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "furniture-admin",
		ErrorHandler: ErrorHandler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	app.Use(recover.New())
	app.Use(obs.RequestID())
	app.Use(obs.AccessLog())
	app.Use(security.Headers())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,OPTIONS",
		ExposeHeaders: security.HeaderSignature + ", " + security.HeaderSignatureAlgorithm,
	}))
	app.Use(security.SignResponses(d.Signer))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public
	api.Get("/public-key", security.PublicKeyHandler(d.Signer))
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(d.DB))
	api.Post("/auth/login", auth.LoginHandler(cfg, d.DB))
	api.Post("/chat", chatLimiter(cfg), chatbot.ChatHandler(d.Chat))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(d.DB))

	store := d.Purchases.Inventory()
	protected.Get("/products", inventory.ListProductsHandler(store))
	protected.Get("/products/:id", inventory.GetProductHandler(store))
	protected.Get("/dashboard", dashboard.Handler(d.Purchases))

	protected.Get("/purchases", purchase.ListHandler(d.Purchases))
	protected.Get("/purchases/export", purchase.ExportHandler(d.Purchases))
	protected.Get("/purchases/:id", purchase.GetHandler(d.Purchases))
	protected.Post("/purchases", purchase.SubmitHandler(d.Purchases))

	// Admin only
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/products", inventory.CreateProductHandler(store))
	adminRoutes.Post("/products/:id/restock", inventory.RestockHandler(store))
	adminRoutes.Post("/purchases/:id/cancel", purchase.CancelHandler(d.Purchases))
	adminRoutes.Post("/purchases/:id/confirm", purchase.ConfirmHandler(d.Purchases))
	adminRoutes.Post("/users", auth.CreateUserHandler(d.DB))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(d.DB))

	return app
}

func chatLimiter(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.ChatRateLimit,
		Expiration: cfg.ChatRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
		},
	})
}

// ErrorHandler renders every error as {"error": "..."}. Domain errors are
// mapped through apperr; anything that maps to 500 is logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		obs.Logger.Error("request_failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err,
			"request_id", obs.RequestIDFromCtx(c),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperr.Message(err)})
}
