package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/service"
)

// ReportsHandler serves performance and daily reports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Performance GET /reports/performance?period=.
func (h *ReportsHandler) Performance(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	r, err := h.service.Performance(c.UserContext(), technicianID, c.Query("period"))
	if err != nil {
		return err
	}
	trend := make([]fiber.Map, 0, len(r.MonthlyTrend))
	for _, point := range r.MonthlyTrend {
		trend = append(trend, fiber.Map{"month": point.Month, "completed": point.Completed, "rating": point.Rating})
	}
	return c.JSON(fiber.Map{
		"period":                r.Period,
		"technician_id":         r.TechnicianID,
		"tickets_completed":     r.TicketsCompleted,
		"avg_resolution_time":   r.AvgResolutionTime,
		"customer_satisfaction": r.CustomerSatisfaction,
		"efficiency_score":      r.EfficiencyScore,
		"on_time_completion":    r.OnTimeCompletion,
		"breakdown_by_type": fiber.Map{
			"motor_repair":          r.MotorRepair,
			"pump_service":          r.PumpService,
			"generator_maintenance": r.GeneratorMaintenance,
		},
		"monthly_trend": trend,
	})
}

// Daily GET /reports/daily?date=.
func (h *ReportsHandler) Daily(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	r, err := h.service.Daily(c.UserContext(), technicianID, c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"date":                r.Date,
		"technician_id":       r.TechnicianID,
		"tickets_completed":   r.TicketsCompleted,
		"tickets_in_progress": r.TicketsInProgress,
		"hours_worked":        r.HoursWorked,
		"travel_distance":     r.TravelDistance,
		"fuel_consumed":       r.FuelConsumed,
		"parts_used_value":    r.PartsUsedValue,
		"customer_ratings":    r.CustomerRatings,
		"avg_rating":          r.AvgRating,
	})
}
