package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/academic-support/internal/api/http/handlers"
	"github.com/spec-kit/academic-support/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Intake         *handlers.IntakeHandler
	Admin          *handlers.AdminHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/tickets", cfg.Intake.SubmitTicket)
	app.Get("/files/*", cfg.Files.Download)

	authGroup := app.Group("/auth/admin")
	authGroup.Post("/login", cfg.Admin.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Admin.Logout)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/tickets", cfg.Admin.ListTickets)
	// Registered ahead of /tickets/:id so "stats" is not taken for an id.
	admin.Get("/tickets/stats", cfg.Admin.TicketStats)
	admin.Get("/tickets/:id", cfg.Admin.GetTicket)
	admin.Patch("/tickets/:id/status", cfg.Admin.UpdateStatus)
	admin.Get("/tickets/:id/attachments/:slot", cfg.Admin.DownloadAttachment)
}
