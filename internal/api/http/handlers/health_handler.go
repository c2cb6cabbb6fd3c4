package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
)

// HealthHandler responds to the index, liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	now         func() time.Time
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis, now: time.Now}
}

// Index describes the API.
func (h *HealthHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Field Service Technician API",
		"version": h.version,
		"status":  "running",
		"endpoints": fiber.Map{
			"health":        "/health",
			"metrics":       "/metrics",
			"auth":          "/api/v1/auth/",
			"dashboard":     "/api/v1/dashboard/",
			"tickets":       "/api/v1/tickets/",
			"notifications": "/api/v1/notifications/",
			"schedule":      "/api/v1/schedule/",
			"profile":       "/api/v1/profile/",
			"reports":       "/api/v1/reports/",
			"inventory":     "/api/v1/inventory/",
		},
	})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "healthy",
		"service":          h.serviceName,
		"version":          h.version,
		"fallback_version": fallback.Version,
		"timestamp":        persistence.FormatTimestamp(h.now()),
	})
}

// Ready reports service readiness by checking dependencies. Requests are
// still served from fallback data when it fails.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		ready = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		ready = false
	} else {
		depStatus["redis"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"code":    "DEPENDENCY_UNAVAILABLE",
		"detail":  "one or more dependencies unavailable; serving fallback data",
		"details": depStatus,
	})
}
