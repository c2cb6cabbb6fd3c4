package domain

import "time"

// Part is a stock item a technician can draw on.
type Part struct {
	ID                int64
	PartNumber        string
	Name              string
	Category          string
	QuantityAvailable int
	UnitCost          float64
	Location          string
}

// PartUsage records parts consumed while servicing a ticket.
type PartUsage struct {
	PartID   int64
	Name     string
	Quantity int
	Cost     float64
}

// LineCost is cost times quantity; a missing quantity counts as one.
func (u PartUsage) LineCost() float64 {
	qty := u.Quantity
	if qty <= 0 {
		qty = 1
	}
	return u.Cost * float64(qty)
}

// PartsRequestStatus tracks a replenishment request.
type PartsRequestStatus string

const (
	PartsRequestPending   PartsRequestStatus = "pending_approval"
	PartsRequestApproved  PartsRequestStatus = "approved"
	PartsRequestDelivered PartsRequestStatus = "delivered"
	PartsRequestCancelled PartsRequestStatus = "cancelled"
)

// PartsRequestLine is one requested item.
type PartsRequestLine struct {
	PartID   int64
	Quantity int
	Urgency  string
}

// PartsRequest is a technician's request for stock.
type PartsRequest struct {
	RequestID         string
	TechnicianID      int64
	Status            PartsRequestStatus
	Lines             []PartsRequestLine
	PartsCount        int
	Reason            string
	SubmittedAt       time.Time
	EstimatedDelivery string
	DeliveredAt       *time.Time
}
