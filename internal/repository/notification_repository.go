package repository

import (
	"context"
	"sort"

	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/fallback"
	"github.com/spec-kit/field-service/internal/persistence"
)

// NotificationRepository manages a technician's inbox.
type NotificationRepository interface {
	// ListForTechnician returns newest first regardless of the source.
	ListForTechnician(ctx context.Context, technicianID int64) []domain.Notification
	MarkRead(ctx context.Context, technicianID, notificationID int64) (affected int64, ok bool)
	MarkAllRead(ctx context.Context, technicianID int64) (affected int64, ok bool)
	Create(ctx context.Context, notification domain.Notification) bool
}

type notificationRepository struct {
	db *Resilient
}

// NewNotificationRepository builds the storage-backed inbox.
func NewNotificationRepository(db *Resilient) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListForTechnician(ctx context.Context, technicianID int64) []domain.Notification {
	const query = `
        SELECT id, user_id AS technician_id, title, message, type, is_read, ticket_id, created_at
        FROM notifications WHERE user_id=$1
        ORDER BY created_at DESC, id DESC`
	seed := fallback.Select(fallback.Notifications(), func(row persistence.Row) bool {
		return rowInt64(row, "technician_id") == technicianID
	})
	rows := r.db.ReadMany(ctx, "notifications.list", seed, query, technicianID)
	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notificationFromRow(row))
	}
	sortNewestFirst(out)
	return out
}

func (r *notificationRepository) MarkRead(ctx context.Context, technicianID, notificationID int64) (int64, bool) {
	const statement = `UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`
	return r.db.Write(ctx, "notifications.mark_read", statement, notificationID, technicianID)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, technicianID int64) (int64, bool) {
	const statement = `UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE`
	return r.db.Write(ctx, "notifications.mark_all_read", statement, technicianID)
}

func (r *notificationRepository) Create(ctx context.Context, n domain.Notification) bool {
	const statement = `
        INSERT INTO notifications (user_id, title, message, type, is_read, ticket_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var ticketID any
	if n.TicketID != nil {
		ticketID = *n.TicketID
	}
	_, ok := r.db.Write(ctx, "notifications.create", statement,
		n.TechnicianID,
		n.Title,
		n.Message,
		string(n.Type),
		n.IsRead,
		ticketID,
		n.CreatedAt.UTC(),
	)
	return ok
}

// Ties on created_at are broken by id so the order is total.
func sortNewestFirst(items []domain.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
