package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// DashboardHandler serves the landing views.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Summary GET /dashboard/.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	d := h.service.Summary(c.UserContext(), technicianID)
	return c.JSON(fiber.Map{
		"technician": dto.NewTechnicianResponse(d.Technician),
		"stats": fiber.Map{
			"total_tickets":       d.Stats.Total,
			"pending_tickets":     d.Stats.Pending,
			"in_progress_tickets": d.Stats.InProgress,
			"completed_tickets":   d.Stats.Completed,
			"completed_today":     d.Stats.CompletedToday,
		},
		"recent_tickets": dto.NewTicketList(d.RecentTickets),
		"performance": fiber.Map{
			"avg_resolution_time": d.Performance.AvgResolutionTime,
			"customer_rating":     d.Performance.CustomerRating,
			"completion_rate":     d.Performance.CompletionRate,
			"on_time_percentage":  d.Performance.OnTimePercentage,
		},
	})
}

// Overview GET /dashboard/overview.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	o := h.service.Overview(c.UserContext(), technicianID)
	return c.JSON(fiber.Map{
		"technician_info": dto.NewTechnicianResponse(o.Technician),
		"assigned_tickets": fiber.Map{
			"total":           o.Assigned.Total,
			"high_priority":   o.Assigned.High,
			"medium_priority": o.Assigned.Medium,
			"low_priority":    o.Assigned.Low,
			"overdue":         o.Assigned.Overdue,
		},
		"today_schedule":       dto.NewTicketList(o.TodaySchedule),
		"unread_notifications": o.UnreadNotifications,
		"recent_activity":      dto.NewTicketList(o.RecentActivity),
	})
}
