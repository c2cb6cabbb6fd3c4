package service

import (
	"context"
	"time"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/repository"
)

const (
	recentTicketCount   = 5
	recentActivityCount = 3
)

// Performance holds the headline figures shown on the dashboard. They are
// not derived from stored data.
type Performance struct {
	AvgResolutionTime string
	CustomerRating    float64
	CompletionRate    float64
	OnTimePercentage  float64
}

var dashboardPerformance = Performance{
	AvgResolutionTime: "2.5 hours",
	CustomerRating:    4.7,
	CompletionRate:    95.5,
	OnTimePercentage:  92.3,
}

// TicketStats counts tickets by status.
type TicketStats struct {
	Total          int
	Pending        int
	InProgress     int
	Completed      int
	CompletedToday int
}

// Dashboard is the landing summary.
type Dashboard struct {
	Technician    domain.Technician
	Stats         TicketStats
	RecentTickets []domain.Ticket
	Performance   Performance
}

// PriorityBreakdown counts assigned tickets by priority.
type PriorityBreakdown struct {
	Total   int
	High    int
	Medium  int
	Low     int
	Overdue int
}

// Overview is the detailed dashboard.
type Overview struct {
	Technician          domain.Technician
	Assigned            PriorityBreakdown
	TodaySchedule       []domain.Ticket
	UnreadNotifications int
	RecentActivity      []domain.Ticket
}

// DashboardService assembles dashboard views.
type DashboardService struct {
	technicians   repository.TechnicianRepository
	tickets       repository.TicketRepository
	notifications repository.NotificationRepository
	clock         Clock
}

// DashboardDependencies bundles repositories for the dashboard.
type DashboardDependencies struct {
	TechnicianRepo   repository.TechnicianRepository
	TicketRepo       repository.TicketRepository
	NotificationRepo repository.NotificationRepository
	Clock            Clock
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		technicians:   deps.TechnicianRepo,
		tickets:       deps.TicketRepo,
		notifications: deps.NotificationRepo,
		clock:         deps.Clock,
	}
}

// Summary builds the landing dashboard.
func (s *DashboardService) Summary(ctx context.Context, technicianID int64) *Dashboard {
	technician := s.technicians.GetByID(ctx, technicianID)
	tickets := s.tickets.List(ctx, repository.TicketFilter{TechnicianID: technicianID})
	today := s.clock.today()

	stats := TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusScheduled:
			stats.Pending++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusCompleted:
			stats.Completed++
			if ticket.CompletedOn(today) {
				stats.CompletedToday++
			}
		}
	}

	return &Dashboard{
		Technician:    technician,
		Stats:         stats,
		RecentTickets: repository.Paginate(tickets, 0, recentTicketCount),
		Performance:   dashboardPerformance,
	}
}

// Overview builds the detailed dashboard.
func (s *DashboardService) Overview(ctx context.Context, technicianID int64) *Overview {
	technician := s.technicians.GetByID(ctx, technicianID)
	tickets := s.tickets.List(ctx, repository.TicketFilter{TechnicianID: technicianID})
	notifications := s.notifications.ListForTechnician(ctx, technicianID)
	now := s.clock.now()
	today := now.Format(time.DateOnly)

	breakdown := PriorityBreakdown{Total: len(tickets)}
	todaySchedule := make([]domain.Ticket, 0)
	for _, ticket := range tickets {
		switch ticket.Priority {
		case domain.TicketPriorityHigh:
			breakdown.High++
		case domain.TicketPriorityMedium:
			breakdown.Medium++
		case domain.TicketPriorityLow:
			breakdown.Low++
		}
		if ticket.Status == domain.TicketStatusScheduled && !ticket.ScheduledDate.IsZero() && ticket.ScheduledDate.Before(now) {
			breakdown.Overdue++
		}
		if ticket.ScheduledOn(today) {
			todaySchedule = append(todaySchedule, ticket)
		}
	}

	recent := tickets
	if len(recent) > recentActivityCount {
		recent = recent[len(recent)-recentActivityCount:]
	}

	return &Overview{
		Technician:          technician,
		Assigned:            breakdown,
		TodaySchedule:       todaySchedule,
		UnreadNotifications: len(unread(notifications)),
		RecentActivity:      recent,
	}
}
