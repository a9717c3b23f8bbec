package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBusinessWeek(ctx context.Context, businessID int64) (*models.WeekResponse, error)
	GetEmployeeWeek(ctx context.Context, employeeID int64) (*models.WeekResponse, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
