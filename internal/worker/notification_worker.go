package worker

import (
	"github.com/civicpulse/complaint-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// Delivery is synchronous, so there is no goroutine to manage.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
