package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetBlockingByEmployee активные и ожидающие бронирования сотрудника, пересекающиеся с [from, to)
	GetBlockingByEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetDaySchedule(ctx context.Context, ownerType domain.ScheduleOwnerType, ownerID int64, day time.Weekday) (domain.DaySchedule, bool, error)
}

// CatalogRepository справочник услуг, компаний и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
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
