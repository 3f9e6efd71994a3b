package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ash-the-k/uhi-hackathon/internal/api/http/handlers"
	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Dashboard routes demonstrate the gate:
// each actor dashboard admits its role plus admin.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Me)

	dashboard := api.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/doctor", auth.RequireRole(domain.RoleDoctor, domain.RoleAdmin), cfg.Dashboard.Doctor)
	dashboard.Get("/patient", auth.RequireRole(domain.RolePatient, domain.RoleAdmin), cfg.Dashboard.Patient)
	dashboard.Get("/staff", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Dashboard.Staff)
}
