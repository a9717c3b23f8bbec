package replace_schedule

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceBusinessWeek(ctx context.Context, businessID, actorBusinessID int64, req *models.ReplaceWeekRequest) (*models.WeekResponse, error)
	ReplaceEmployeeWeek(ctx context.Context, employeeID, actorBusinessID int64, req *models.ReplaceWeekRequest) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
