package notifier

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/integrations/notificationservice"
)

// Sender доставляет уведомление во внешний сервис
type Sender interface {
	Send(ctx context.Context, n notificationservice.Notification) error
}

// Metrics интерфейс метрик уведомлений
type Metrics interface {
	IncNotificationsFailed(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
