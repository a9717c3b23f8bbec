package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBusinessID(ctx context.Context, businessID int64, status *domain.BookingStatus, date *time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, confirmedAt *time.Time) error
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
	ExistsWithStatus(ctx context.Context, userID, businessID int64, status domain.BookingStatus) (bool, error)
}

// Notifier уведомления пользователю о смене статуса. Вызовы не блокируют.
type Notifier interface {
	NotifyBookingConfirmed(booking *domain.Booking)
	NotifyBookingRejected(booking *domain.Booking)
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
