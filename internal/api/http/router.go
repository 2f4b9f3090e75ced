package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/havenly/property-service/internal/api/http/handlers"
	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Handoff        *handlers.HandoffHandler
	Properties     *handlers.PropertiesHandler
	Documents      *handlers.DocumentsHandler
	Maintenance    *handlers.MaintenanceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Post("/auth/register", cfg.Auth.Register)
	api.Post("/auth/login", cfg.Auth.Login)
	// Exchange is unauthenticated: the token itself is the credential.
	api.Post("/auth/exchange-token", cfg.Handoff.ExchangeToken)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)
	protected.Post("/auth/transfer-token", cfg.Handoff.CreateTransferToken)

	properties := protected.Group("/properties")
	properties.Get("", cfg.Properties.List)
	properties.Get("/:id", cfg.Properties.Get)
	landlordOnly := auth.RequireRole(domain.RoleLandlord, domain.RoleAdmin)
	properties.Post("", landlordOnly, cfg.Properties.Create)
	properties.Put("/:id", landlordOnly, cfg.Properties.Update)
	properties.Delete("/:id", landlordOnly, cfg.Properties.Delete)

	documents := protected.Group("/documents")
	documents.Get("", cfg.Documents.List)
	documents.Get("/:id", cfg.Documents.Get)
	documents.Post("", cfg.Documents.InitiateUpload)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/maintenance/purge-tokens", cfg.Maintenance.PurgeTransferTokens)

	// OCR processor callback, guarded by a shared secret inside the handler.
	api.Post("/internal/documents/:id/status", cfg.Documents.UpdateStatus)
}
