package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to ticket and
// inventory events. Delivery runs inline with the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker subscribed")
	}
}
