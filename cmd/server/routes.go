package main

import (
	"context"
	"strings"
	"time"

	"countdown-backend/internal/audit"
	"countdown-backend/internal/auth"
	"countdown-backend/internal/catalog"
	"countdown-backend/internal/config"
	"countdown-backend/internal/countdown"
	"countdown-backend/internal/database"
	"countdown-backend/internal/host"
	"countdown-backend/internal/metastore"
	"countdown-backend/internal/models"
	"countdown-backend/internal/storefront"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	zap.L().Error("Unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Beklenmeyen sunucu hatası",
	})
}

// ctx bitince açık SSE akışları kapanır
func newApp(ctx context.Context, cfg *config.Config) (*fiber.App, error) {
	loc := siteLocation(cfg)

	renderer, err := countdown.NewRenderer()
	if err != nil {
		return nil, err
	}
	adapter := countdown.NewAdapter(metastore.NewGormStore(database.DB), countdownOptions(cfg, loc)...)
	module := countdown.NewModule(adapter, renderer, loc)
	module.OnSaved(audit.CountdownSaved)

	reg := host.NewRegistry()
	module.Register(reg)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	// CORS origins virgülle ayrılmış
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Ürün sayfası ve stylesheet'ler
	storefront.MountAssets(app, reg)
	app.Get("/products/:id", storefront.ProductPageHandler(reg))

	api := app.Group("/api")

	// Public
	api.Post("/auth/register-admin", auth.RegisterAdminHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	api.Get("/products", catalog.ListProductsHandler())
	api.Get("/products/:id", catalog.GetProductHandler())
	api.Get("/products/:id/countdown", countdown.StatusHandler(module))
	api.Get("/products/:id/countdown/stream", countdown.StreamHandler(ctx, module, time.Duration(cfg.StreamTickMs)*time.Millisecond))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleShopManager))

	// Sayaçların toplu XLSX aktarımı
	adminRoutes.Post("/products/countdowns/import", catalog.ImportCountdownsHandler(reg))
	adminRoutes.Get("/products/countdowns/export", catalog.ExportCountdownsHandler(module))

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Ürün ayar sekmeleri ve kaydetme
	adminRoutes.Get("/products/:id/tabs", catalog.ProductTabsHandler(reg))
	adminRoutes.Post("/products/:id/meta", catalog.SaveProductMetaHandler(reg))

	// Audit log
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Kullanıcı yönetimi sadece admin
	adminRoutes.Post("/users", auth.RequireRole(models.RoleAdmin), auth.CreateShopManagerHandler())

	return app, nil
}
