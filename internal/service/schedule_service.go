package service

import (
	"context"
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

const (
	defaultStartTime  = "09:00"
	estimatedEndTime  = "11:00"
	workingHoursStart = "08:00"
	workingHoursEnd   = "18:00"
	daysPerWeek       = 7
)

// Appointment is a scheduled visit.
type Appointment struct {
	Ticket    domain.Ticket
	StartTime string
	EndTime   string
}

// DaySchedule lists a day's open appointments.
type DaySchedule struct {
	Date              string
	Appointments      []Appointment
	WorkingHoursStart string
	WorkingHoursEnd   string
}

// ScheduleDay is one day of the weekly view.
type ScheduleDay struct {
	Date    string
	DayName string
	Tickets []domain.Ticket
}

// ScheduleService builds calendar views from assigned tickets.
type ScheduleService struct {
	tickets repository.TicketRepository
	clock   Clock
}

// NewScheduleService constructs the service.
func NewScheduleService(tickets repository.TicketRepository, clock Clock) *ScheduleService {
	return &ScheduleService{tickets: tickets, clock: clock}
}

// Day lists SCHEDULED tickets on date (YYYY-MM-DD, default today).
func (s *ScheduleService) Day(ctx context.Context, technicianID int64, date string) (*DaySchedule, error) {
	day, ok := parseDay(date, s.clock)
	if !ok {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": date})
	}
	status := domain.TicketStatusScheduled
	tickets := s.tickets.List(ctx, repository.TicketFilter{TechnicianID: technicianID, Status: &status})

	appointments := make([]Appointment, 0)
	for _, ticket := range tickets {
		if !ticket.ScheduledOn(day) {
			continue
		}
		start := defaultStartTime
		if !ticket.ScheduledDate.IsZero() {
			start = ticket.ScheduledDate.Format("15:04")
		}
		appointments = append(appointments, Appointment{Ticket: ticket, StartTime: start, EndTime: estimatedEndTime})
	}

	return &DaySchedule{
		Date:              day,
		Appointments:      appointments,
		WorkingHoursStart: workingHoursStart,
		WorkingHoursEnd:   workingHoursEnd,
	}, nil
}

// Week groups every assigned ticket into the seven days starting at
// weekStart (default today).
func (s *ScheduleService) Week(ctx context.Context, technicianID int64, weekStart string) ([]ScheduleDay, error) {
	start, ok := parseDay(weekStart, s.clock)
	if !ok {
		return nil, apperrors.NewValidationError("week_start must be YYYY-MM-DD", map[string]any{"week_start": weekStart})
	}
	first, _ := time.Parse(time.DateOnly, start)
	tickets := s.tickets.List(ctx, repository.TicketFilter{TechnicianID: technicianID})

	days := make([]ScheduleDay, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		date := first.AddDate(0, 0, i)
		day := date.Format(time.DateOnly)
		matched := make([]domain.Ticket, 0)
		for _, ticket := range tickets {
			if ticket.ScheduledOn(day) {
				matched = append(matched, ticket)
			}
		}
		days = append(days, ScheduleDay{Date: day, DayName: date.Weekday().String(), Tickets: matched})
	}
	return days, nil
}
