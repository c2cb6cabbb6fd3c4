package dto

import (
	"github.com/spec-kit/field-service/internal/domain"
)

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID                   int64                 `json:"id"`
	TicketNumber         string                `json:"ticket_number"`
	CustomerName         string                `json:"customer_name"`
	CustomerPhone        string                `json:"customer_phone"`
	CustomerAddress      string                `json:"customer_address"`
	ProductName          string                `json:"product_name"`
	ProductModel         string                `json:"product_model"`
	IssueDescription     string                `json:"issue_description"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	AssignedTechnicianID int64                 `json:"assigned_technician_id"`
	ScheduledDate        *string               `json:"scheduled_date"`
	CreatedAt            *string               `json:"created_at"`
	CompletedAt          *string               `json:"completed_at"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                   t.ID,
		TicketNumber:         t.TicketNumber,
		CustomerName:         t.CustomerName,
		CustomerPhone:        t.CustomerPhone,
		CustomerAddress:      t.CustomerAddress,
		ProductName:          t.ProductName,
		ProductModel:         t.ProductModel,
		IssueDescription:     t.IssueDescription,
		Status:               t.Status,
		Priority:             t.Priority,
		AssignedTechnicianID: t.AssignedTechnicianID,
		ScheduledDate:        OptionalTimestamp(&t.ScheduledDate),
		CreatedAt:            OptionalTimestamp(&t.CreatedAt),
		CompletedAt:          OptionalTimestamp(t.CompletedAt),
	}
}

// NewTicketList maps tickets, never returning nil.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}

// ServiceHistoryEntry is a past visit.
type ServiceHistoryEntry struct {
	Date       string `json:"date"`
	Type       string `json:"type"`
	Technician string `json:"technician"`
}

// TicketDetailResponse adds the job-sheet fields to a ticket.
type TicketDetailResponse struct {
	TicketResponse
	CustomerEmail     string                `json:"customer_email"`
	ProductSerial     string                `json:"product_serial"`
	WarrantyStatus    string                `json:"warranty_status"`
	ServiceHistory    []ServiceHistoryEntry `json:"service_history"`
	PartsUsed         []PartUsageDTO        `json:"parts_used"`
	WorkPerformed     *string               `json:"work_performed"`
	Photos            []string              `json:"photos"`
	CustomerSignature *string               `json:"customer_signature"`
}

// NewTicketDetailResponse maps a ticket with its job-sheet defaults.
func NewTicketDetailResponse(t domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		TicketResponse: NewTicketResponse(t),
		CustomerEmail:  "customer@example.com",
		ProductSerial:  "SN123456789",
		WarrantyStatus: "active",
		ServiceHistory: []ServiceHistoryEntry{
			{Date: "2024-06-15", Type: "maintenance", Technician: "Previous Tech"},
			{Date: "2024-01-20", Type: "installation", Technician: "Install Team"},
		},
		PartsUsed: []PartUsageDTO{},
		Photos:    []string{},
	}
}

// PartUsageDTO is one line of parts consumed.
type PartUsageDTO struct {
	PartID   int64   `json:"part_id"`
	Name     string  `json:"name,omitempty"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// PartUsagesToDomain converts payload lines.
func PartUsagesToDomain(in []PartUsageDTO) []domain.PartUsage {
	out := make([]domain.PartUsage, 0, len(in))
	for _, p := range in {
		out = append(out, domain.PartUsage{PartID: p.PartID, Name: p.Name, Quantity: p.Quantity, Cost: p.Cost})
	}
	return out
}

// PartUsagesFromDomain converts lines for a response.
func PartUsagesFromDomain(in []domain.PartUsage) []PartUsageDTO {
	out := make([]PartUsageDTO, 0, len(in))
	for _, p := range in {
		out = append(out, PartUsageDTO{PartID: p.PartID, Name: p.Name, Quantity: p.Quantity, Cost: p.Cost})
	}
	return out
}

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status        string         `json:"status"`
	Notes         string         `json:"notes"`
	WorkPerformed string         `json:"work_performed"`
	PartsUsed     []PartUsageDTO `json:"parts_used"`
}

// LocationRequest payload.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PartsUsedRequest payload.
type PartsUsedRequest struct {
	Parts []PartUsageDTO `json:"parts"`
}
