package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/repository"
	apperrors "github.com/spec-kit/field-service/pkg/util/errorutil"
)

const defaultNotificationLimit = 20

// NotificationService serves the inbox and turns domain events into
// notifications.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
	clock         Clock
}

// NotificationDependencies bundles requirements for the notification service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	Clock            Clock
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		cfg:           cfg,
		clock:         deps.Clock,
	}
}

// NotificationPage is the newest-first inbox window.
type NotificationPage struct {
	Notifications []domain.Notification
	TotalCount    int
	UnreadCount   int
}

// ReadReceipt confirms a mark-read request.
type ReadReceipt struct {
	TechnicianID   int64
	NotificationID int64
	Updated        int64
	MarkedAt       time.Time
	Persisted      bool
}

// List returns up to limit notifications, newest first. Counts are taken
// after the unread filter and before the limit.
func (n *NotificationService) List(ctx context.Context, technicianID int64, limit int, unreadOnly bool) (*NotificationPage, error) {
	if limit < 0 {
		return nil, apperrors.NewValidationError("limit must not be negative", nil)
	}
	if limit == 0 {
		limit = defaultNotificationLimit
	}
	items := n.notifications.ListForTechnician(ctx, technicianID)
	if unreadOnly {
		items = unread(items)
	}
	return &NotificationPage{
		Notifications: repository.Paginate(items, 0, limit),
		TotalCount:    len(items),
		UnreadCount:   len(unread(items)),
	}, nil
}

// UnreadCount counts unread notifications.
func (n *NotificationService) UnreadCount(ctx context.Context, technicianID int64) int {
	return len(unread(n.notifications.ListForTechnician(ctx, technicianID)))
}

// MarkRead marks one of the technician's notifications read.
func (n *NotificationService) MarkRead(ctx context.Context, technicianID, notificationID int64) *ReadReceipt {
	updated, ok := n.notifications.MarkRead(ctx, technicianID, notificationID)
	return &ReadReceipt{
		TechnicianID:   technicianID,
		NotificationID: notificationID,
		Updated:        updated,
		MarkedAt:       n.clock.now(),
		Persisted:      ok,
	}
}

// MarkAllRead marks every unread notification read.
func (n *NotificationService) MarkAllRead(ctx context.Context, technicianID int64) *ReadReceipt {
	updated, ok := n.notifications.MarkAllRead(ctx, technicianID)
	return &ReadReceipt{
		TechnicianID: technicianID,
		Updated:      updated,
		MarkedAt:     n.clock.now(),
		Persisted:    ok,
	}
}

func unread(items []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if !item.IsRead {
			out = append(out, item)
		}
	}
	return out
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventPartsUsed, n.handlePartsUsed)
	n.dispatcher.Subscribe(events.EventPartsRequested, n.handlePartsRequested)
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	payload, _ := event.Payload.(events.TicketStatusChangedPayload)
	label := payload.TicketNumber
	if label == "" {
		label = fmt.Sprintf("#%d", event.TicketID)
	}
	ticketID := event.TicketID
	n.deliver(ctx, domain.Notification{
		TechnicianID: event.TechnicianID,
		Title:        "Ticket Status Updated",
		Message:      fmt.Sprintf("Ticket %s is now %s", label, payload.NewStatus),
		Type:         domain.NotificationUpdate,
		TicketID:     &ticketID,
		CreatedAt:    event.Timestamp,
	})
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePartsUsed(ctx context.Context, event events.Event) error {
	n.logger.Info("PartsUsed", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePartsRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("PartsRequested", zap.Int64("technician_id", event.TechnicianID), zap.Any("payload", event.Payload))
	payload, _ := event.Payload.(events.PartsRequestedPayload)
	n.deliver(ctx, domain.Notification{
		TechnicianID: event.TechnicianID,
		Title:        "Parts Request Submitted",
		Message:      fmt.Sprintf("Request %s for %d part(s) is pending approval", payload.RequestID, payload.PartsCount),
		Type:         domain.NotificationUpdate,
		CreatedAt:    event.Timestamp,
	})
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, notification domain.Notification) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.clock.now()
	}
	if !n.notifications.Create(ctx, notification) {
		n.logger.Warn("notification not stored", zap.Int64("technician_id", notification.TechnicianID), zap.String("title", notification.Title))
	}
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("technician_id", event.TechnicianID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
