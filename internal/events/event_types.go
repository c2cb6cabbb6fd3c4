package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/field-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventPartsUsed           EventType = "parts_used"
	EventPartsRequested      EventType = "parts_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TechnicianID int64       `json:"technician_id"`
	TicketID     int64       `json:"ticket_id,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, technicianID, ticketID int64, at time.Time, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TechnicianID: technicianID,
		TicketID:     ticketID,
		Timestamp:    at,
		Payload:      payload,
	}
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Notes        string              `json:"notes,omitempty"`
	Persisted    bool                `json:"persisted"`
}

// PartsUsedPayload payload.
type PartsUsedPayload struct {
	PartsCount int     `json:"parts_count"`
	TotalCost  float64 `json:"total_cost"`
}

// PartsRequestedPayload payload.
type PartsRequestedPayload struct {
	RequestID  string `json:"request_id"`
	PartsCount int    `json:"parts_count"`
	Reason     string `json:"reason,omitempty"`
}
