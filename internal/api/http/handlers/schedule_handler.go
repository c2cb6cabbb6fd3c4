package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// ScheduleHandler serves calendar views.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: scheduleService}
}

// Day GET /schedule/?date=YYYY-MM-DD.
func (h *ScheduleHandler) Day(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	day, err := h.service.Day(c.UserContext(), technicianID, c.Query("date"))
	if err != nil {
		return err
	}
	appointments := make([]fiber.Map, 0, len(day.Appointments))
	for _, a := range day.Appointments {
		appointments = append(appointments, fiber.Map{
			"id":            a.Ticket.ID,
			"ticket_number": a.Ticket.TicketNumber,
			"customer_name": a.Ticket.CustomerName,
			"start_time":    a.StartTime,
			"end_time":      a.EndTime,
			"status":        a.Ticket.Status,
			"address":       a.Ticket.CustomerAddress,
			"priority":      a.Ticket.Priority,
			"product_name":  a.Ticket.ProductName,
		})
	}
	return c.JSON(fiber.Map{
		"date":               day.Date,
		"appointments":       appointments,
		"total_appointments": len(appointments),
		"working_hours":      fiber.Map{"start": day.WorkingHoursStart, "end": day.WorkingHoursEnd},
	})
}

// Week GET /schedule/week?week_start=YYYY-MM-DD.
func (h *ScheduleHandler) Week(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	days, err := h.service.Week(c.UserContext(), technicianID, c.Query("week_start"))
	if err != nil {
		return err
	}
	weekly := make(fiber.Map, len(days))
	for _, day := range days {
		weekly[day.Date] = fiber.Map{
			"date":         day.Date,
			"day_name":     day.DayName,
			"appointments": len(day.Tickets),
			"tickets":      dto.NewTicketList(day.Tickets),
		}
	}
	return c.JSON(fiber.Map{"weekly_schedule": weekly})
}
