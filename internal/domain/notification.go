package domain

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationAssignment NotificationType = "assignment"
	NotificationUrgent     NotificationType = "urgent"
	NotificationSchedule   NotificationType = "schedule"
	NotificationUpdate     NotificationType = "update"
)

// Notification belongs to one technician. It is only ever mutated by
// marking it read.
type Notification struct {
	ID           int64
	TechnicianID int64
	Title        string
	Message      string
	Type         NotificationType
	IsRead       bool
	TicketID     *int64
	CreatedAt    time.Time
}
