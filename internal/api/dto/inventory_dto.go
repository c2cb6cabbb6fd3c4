package dto

import "github.com/spec-kit/field-service/internal/domain"

// PartResponse is a stock item.
type PartResponse struct {
	ID                int64   `json:"id"`
	PartNumber        string  `json:"part_number"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	QuantityAvailable int     `json:"quantity_available"`
	UnitCost          float64 `json:"unit_cost"`
	Location          string  `json:"location"`
}

// NewPartList maps parts.
func NewPartList(parts []domain.Part) []PartResponse {
	out := make([]PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, PartResponse{
			ID:                p.ID,
			PartNumber:        p.PartNumber,
			Name:              p.Name,
			Category:          p.Category,
			QuantityAvailable: p.QuantityAvailable,
			UnitCost:          p.UnitCost,
			Location:          p.Location,
		})
	}
	return out
}

// PartsRequestLineDTO is one requested item.
type PartsRequestLineDTO struct {
	PartID   int64  `json:"part_id"`
	Quantity int    `json:"quantity"`
	Urgency  string `json:"urgency,omitempty"`
}

// PartsRequestPayload is the body of a parts request.
type PartsRequestPayload struct {
	Parts  []PartsRequestLineDTO `json:"parts"`
	Reason string                `json:"reason"`
}

// Lines converts the payload lines.
func (p PartsRequestPayload) Lines() []domain.PartsRequestLine {
	out := make([]domain.PartsRequestLine, 0, len(p.Parts))
	for _, line := range p.Parts {
		out = append(out, domain.PartsRequestLine{PartID: line.PartID, Quantity: line.Quantity, Urgency: line.Urgency})
	}
	return out
}

// PartsRequestResponse is a recorded request.
type PartsRequestResponse struct {
	RequestID         string                `json:"request_id"`
	TechnicianID      int64                 `json:"technician_id"`
	Status            string                `json:"status"`
	PartsCount        int                   `json:"parts_count"`
	Parts             []PartsRequestLineDTO `json:"parts"`
	Reason            string                `json:"reason,omitempty"`
	SubmittedAt       string                `json:"submitted_at"`
	EstimatedDelivery string                `json:"estimated_delivery,omitempty"`
	DeliveredAt       *string               `json:"delivered_at,omitempty"`
}

// NewPartsRequestResponse maps a request.
func NewPartsRequestResponse(r domain.PartsRequest) PartsRequestResponse {
	lines := make([]PartsRequestLineDTO, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, PartsRequestLineDTO{PartID: line.PartID, Quantity: line.Quantity, Urgency: line.Urgency})
	}
	return PartsRequestResponse{
		RequestID:         r.RequestID,
		TechnicianID:      r.TechnicianID,
		Status:            string(r.Status),
		PartsCount:        r.PartsCount,
		Parts:             lines,
		Reason:            r.Reason,
		SubmittedAt:       Timestamp(r.SubmittedAt),
		EstimatedDelivery: r.EstimatedDelivery,
		DeliveredAt:       OptionalTimestamp(r.DeliveredAt),
	}
}
