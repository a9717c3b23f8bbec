package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockEmployee(ctx context.Context, employeeID int64) error
	GetBlockingByEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error)
	CreateBatch(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error)
}

// CatalogRepository справочник услуг, компаний и сотрудников
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений. Вызов не блокирует и не возвращает ошибок.
type Notifier interface {
	NotifyBookingRequested(booking *domain.Booking)
}

// Metrics счётчики бронирований
type Metrics interface {
	IncBookingsCreated(status string, n int)
	IncBookingConflicts()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
