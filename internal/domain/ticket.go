package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusScheduled  TicketStatus = "SCHEDULED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// NormalizeStatus upper-cases and trims a caller supplied status. The result
// is not checked against the known set; any value may overwrite any other.
func NormalizeStatus(raw string) TicketStatus {
	return TicketStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// Known reports whether s is one of the four defined statuses.
func (s TicketStatus) Known() bool {
	switch s {
	case TicketStatusScheduled, TicketStatusInProgress, TicketStatusCompleted, TicketStatusCancelled:
		return true
	}
	return false
}

// Ticket is a unit of scheduled field work. Customer and product fields are
// snapshots taken when the ticket was raised.
type Ticket struct {
	ID                   int64
	TicketNumber         string
	CustomerName         string
	CustomerPhone        string
	CustomerAddress      string
	ProductName          string
	ProductModel         string
	IssueDescription     string
	Status               TicketStatus
	Priority             TicketPriority
	AssignedTechnicianID int64
	ScheduledDate        time.Time
	CreatedAt            time.Time
	CompletedAt          *time.Time
}

// ScheduledOn reports whether the ticket is scheduled on the given calendar
// day (YYYY-MM-DD).
func (t Ticket) ScheduledOn(day string) bool {
	return !t.ScheduledDate.IsZero() && t.ScheduledDate.Format(time.DateOnly) == day
}

// CompletedOn reports whether the ticket was completed on the given day.
func (t Ticket) CompletedOn(day string) bool {
	return t.CompletedAt != nil && t.CompletedAt.Format(time.DateOnly) == day
}

// StatusUpdate is a technician's report against a ticket.
type StatusUpdate struct {
	TicketID      int64
	Status        TicketStatus
	Notes         string
	WorkPerformed string
	PartsUsed     []PartUsage
}
