package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/pkg/types"
)

// Interval интервал работы в формате "HH:MM"
type Interval struct {
	Start types.TimeString `json:"start" validate:"required"`
	End   types.TimeString `json:"end" validate:"required"`
}

// Day расписание на день недели (0 - воскресенье)
type Day struct {
	DayOfWeek int        `json:"dayOfWeek" validate:"min=0,max=6"`
	Intervals []Interval `json:"intervals" validate:"dive"`
}

// ReplaceWeekRequest новое недельное расписание целиком.
// Дни, которых нет в списке, считаются выходными.
type ReplaceWeekRequest struct {
	Days []Day `json:"days" validate:"dive"`
}

// WeekResponse DTO недельного расписания
type WeekResponse struct {
	OwnerType string `json:"ownerType"`
	OwnerID   int64  `json:"ownerId"`
	Days      []Day  `json:"days"`
}

// ToDomainWeek конвертирует запрос в доменную модель
func ToDomainWeek(ownerType domain.ScheduleOwnerType, ownerID int64, req *ReplaceWeekRequest) (*domain.WeeklySchedule, error) {
	week := &domain.WeeklySchedule{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Days:      make([]domain.DaySchedule, 0, len(req.Days)),
	}

	for _, d := range req.Days {
		day := domain.DaySchedule{
			DayOfWeek: time.Weekday(d.DayOfWeek),
			Intervals: make([]domain.TimeInterval, 0, len(d.Intervals)),
		}
		for _, i := range d.Intervals {
			start, err := i.Start.Duration()
			if err != nil {
				return nil, err
			}
			end, err := i.End.Duration()
			if err != nil {
				return nil, err
			}
			day.Intervals = append(day.Intervals, domain.TimeInterval{Start: start, End: end})
		}
		week.Days = append(week.Days, day)
	}

	return week, nil
}

// FromDomainWeek конвертирует доменную модель в DTO. Дни упорядочены по номеру.
func FromDomainWeek(week *domain.WeeklySchedule) (*WeekResponse, error) {
	resp := &WeekResponse{
		OwnerType: string(week.OwnerType),
		OwnerID:   week.OwnerID,
		Days:      make([]Day, 0, len(week.Days)),
	}

	for _, d := range week.Days {
		day := Day{DayOfWeek: int(d.DayOfWeek), Intervals: make([]Interval, 0, len(d.Intervals))}
		for _, i := range d.Intervals {
			start, err := types.NewTimeStringFromDuration(i.Start)
			if err != nil {
				return nil, fmt.Errorf("day %d: %w", d.DayOfWeek, err)
			}
			end, err := types.NewTimeStringFromDuration(i.End)
			if err != nil {
				return nil, fmt.Errorf("day %d: %w", d.DayOfWeek, err)
			}
			day.Intervals = append(day.Intervals, Interval{Start: start, End: end})
		}
		resp.Days = append(resp.Days, day)
	}

	sort.Slice(resp.Days, func(i, j int) bool { return resp.Days[i].DayOfWeek < resp.Days[j].DayOfWeek })

	return resp, nil
}
