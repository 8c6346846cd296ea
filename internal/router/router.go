package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/IFRN-SPP/presente/internal/config"
	"github.com/IFRN-SPP/presente/internal/handler"
	"github.com/IFRN-SPP/presente/internal/middleware"
	"github.com/IFRN-SPP/presente/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler   *handler.ActivityHandler
	AttendanceHandler *handler.AttendanceHandler
	NetworkHandler    *handler.NetworkHandler
	CheckinHandler    *handler.CheckinHandler
	PublicHandler     *handler.PublicHandler
	DashboardHandler  *handler.DashboardHandler
	AuditLogHandler   *handler.AuditLogHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Shareable activity pages, addressed by obfuscated codes only.
	if deps.PublicHandler != nil {
		public := app.Group("/p")
		deps.PublicHandler.Register(public)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	authenticated := api.Group("", jwtMiddleware)

	var activities fiber.Router
	if deps.ActivityHandler != nil {
		activities = authenticated.Group("/activities")
		deps.ActivityHandler.Register(activities)
	}

	if deps.AttendanceHandler != nil && activities != nil {
		deps.AttendanceHandler.Register(authenticated, activities)
	}

	if deps.NetworkHandler != nil {
		networks := authenticated.Group("/networks", middleware.RequireRole("admin"))
		deps.NetworkHandler.Register(networks)
	}

	if deps.AuditLogHandler != nil {
		auditLogs := authenticated.Group("/audit-logs", middleware.RequireRole("admin"))
		deps.AuditLogHandler.Register(auditLogs)
	}

	if deps.CheckinHandler != nil {
		checkin := authenticated.Group("", middleware.RateLimit("checkin", 10, time.Minute))
		deps.CheckinHandler.Register(checkin)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(authenticated)
	}
}
