package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/field-service/internal/api/http/handlers"
	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Schedule       *handlers.ScheduleHandler
	Profile        *handlers.ProfileHandler
	Reports        *handlers.ReportsHandler
	Inventory      *handlers.InventoryHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/send-otp", cfg.Auth.SendOTP)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)

	guard := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleTechnician)}

	dashboard := api.Group("/dashboard", guard...)
	dashboard.Get("/", cfg.Dashboard.Summary)
	dashboard.Get("/overview", cfg.Dashboard.Overview)

	tickets := api.Group("/tickets", guard...)
	tickets.Get("/assigned", cfg.Tickets.ListAssigned)
	tickets.Get("/completed", cfg.Tickets.ListCompleted)
	tickets.Get("/:id<int>", cfg.Tickets.GetTicket)
	tickets.Put("/:id<int>/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id<int>/location", cfg.Tickets.CaptureLocation)
	tickets.Post("/:id<int>/photos", cfg.Tickets.UploadPhotos)
	tickets.Post("/:id<int>/signature", cfg.Tickets.CaptureSignature)
	tickets.Post("/:id<int>/parts", cfg.Tickets.AddParts)

	notifications := api.Group("/notifications", guard...)
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Put("/mark-all-read", cfg.Notifications.MarkAllRead)
	notifications.Put("/:id<int>/read", cfg.Notifications.MarkRead)

	schedule := api.Group("/schedule", guard...)
	schedule.Get("/", cfg.Schedule.Day)
	schedule.Get("/week", cfg.Schedule.Week)

	profile := api.Group("/profile", guard...)
	profile.Get("/", cfg.Profile.Get)
	profile.Put("/", cfg.Profile.Update)

	reports := api.Group("/reports", guard...)
	reports.Get("/performance", cfg.Reports.Performance)
	reports.Get("/daily", cfg.Reports.Daily)

	inventory := api.Group("/inventory", guard...)
	inventory.Get("/parts", cfg.Inventory.Parts)
	inventory.Post("/request", cfg.Inventory.RequestParts)
	inventory.Get("/requests", cfg.Inventory.Requests)
}
