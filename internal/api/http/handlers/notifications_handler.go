package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/dto"
	"github.com/spec-kit/field-service/internal/service"
)

// NotificationsHandler serves the inbox.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications/.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), technicianID, limit, queryBool(c, "unread_only"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"notifications": dto.NewNotificationList(page.Notifications),
		"total_count":   page.TotalCount,
		"unread_count":  page.UnreadCount,
	})
}

// MarkRead PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	notificationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	receipt := h.service.MarkRead(c.UserContext(), technicianID, notificationID)
	return c.JSON(fiber.Map{
		"message":         fmt.Sprintf("Notification %d marked as read", notificationID),
		"notification_id": receipt.NotificationID,
		"marked_at":       dto.Timestamp(receipt.MarkedAt),
		"persisted":       receipt.Persisted,
	})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread_count": h.service.UnreadCount(c.UserContext(), technicianID)})
}

// MarkAllRead PUT /notifications/mark-all-read.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	technicianID, err := currentTechnicianID(c)
	if err != nil {
		return err
	}
	receipt := h.service.MarkAllRead(c.UserContext(), technicianID)
	return c.JSON(fiber.Map{
		"message":       "All notifications marked as read",
		"technician_id": receipt.TechnicianID,
		"updated_count": receipt.Updated,
		"marked_at":     dto.Timestamp(receipt.MarkedAt),
		"persisted":     receipt.Persisted,
	})
}
