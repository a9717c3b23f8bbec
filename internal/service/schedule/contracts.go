package schedule

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetWeek(ctx context.Context, ownerType domain.ScheduleOwnerType, ownerID int64) (*domain.WeeklySchedule, error)
	ReplaceWeek(ctx context.Context, week *domain.WeeklySchedule) error
}

// CatalogRepository интерфейс чтения компаний и сотрудников
type CatalogRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
