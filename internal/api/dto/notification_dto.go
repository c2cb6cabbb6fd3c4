package dto

import "github.com/spec-kit/field-service/internal/domain"

// NotificationResponse is the public view of a notification.
type NotificationResponse struct {
	ID           int64                   `json:"id"`
	TechnicianID int64                   `json:"technician_id"`
	Title        string                  `json:"title"`
	Message      string                  `json:"message"`
	Type         domain.NotificationType `json:"type"`
	IsRead       bool                    `json:"is_read"`
	TicketID     *int64                  `json:"ticket_id"`
	CreatedAt    string                  `json:"created_at"`
}

// NewNotificationList maps notifications, keeping their order.
func NewNotificationList(items []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:           n.ID,
			TechnicianID: n.TechnicianID,
			Title:        n.Title,
			Message:      n.Message,
			Type:         n.Type,
			IsRead:       n.IsRead,
			TicketID:     n.TicketID,
			CreatedAt:    Timestamp(n.CreatedAt),
		})
	}
	return out
}
