package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInterval interval start must be before end and both must lie within a day
	ErrInvalidInterval = errors.New("invalid time interval")

	// ErrInvalidDayOfWeek day of week must be within 0..6
	ErrInvalidDayOfWeek = errors.New("invalid day of week")

	// ErrDuplicateDay a weekly schedule holds at most one entry per day
	ErrDuplicateDay = errors.New("duplicate day in weekly schedule")

	// ErrIntervalOutsideBusinessHours an employee interval does not fit into business hours
	ErrIntervalOutsideBusinessHours = errors.New("employee interval is outside business hours")
)

// ScheduleOwnerType who a weekly schedule belongs to
type ScheduleOwnerType string

const (
	OwnerBusiness ScheduleOwnerType = "business"
	OwnerEmployee ScheduleOwnerType = "employee"
)

// TimeInterval [Start, End) offsets from midnight
type TimeInterval struct {
	Start time.Duration
	End   time.Duration
}

// Validate checks Start < End and that both lie within a day
func (i TimeInterval) Validate() error {
	if i.Start < 0 || i.End > 24*time.Hour || i.Start >= i.End {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// Contains returns true if other lies entirely within i
func (i TimeInterval) Contains(other TimeInterval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// DaySchedule open intervals for one day of week
type DaySchedule struct {
	DayOfWeek time.Weekday
	Intervals []TimeInterval
}

// Validate checks the day and every interval
func (d DaySchedule) Validate() error {
	if d.DayOfWeek < time.Sunday || d.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, d.DayOfWeek)
	}
	for _, interval := range d.Intervals {
		if err := interval.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Covers returns true if some interval of the day contains the given one
func (d DaySchedule) Covers(interval TimeInterval) bool {
	for _, own := range d.Intervals {
		if own.Contains(interval) {
			return true
		}
	}
	return false
}

// WeeklySchedule recurring weekly schedule of a business or an employee.
// A day absent from Days means closed that day.
type WeeklySchedule struct {
	OwnerType ScheduleOwnerType
	OwnerID   int64
	Days      []DaySchedule
}

// Day returns the schedule for the given weekday, false when closed
func (w WeeklySchedule) Day(day time.Weekday) (DaySchedule, bool) {
	for _, d := range w.Days {
		if d.DayOfWeek == day && len(d.Intervals) > 0 {
			return d, true
		}
	}
	return DaySchedule{}, false
}

// Validate checks days are unique and well formed
func (w WeeklySchedule) Validate() error {
	seen := make(map[time.Weekday]struct{}, len(w.Days))
	for _, d := range w.Days {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := seen[d.DayOfWeek]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDay, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = struct{}{}
	}
	return nil
}

// FitsInto checks every interval of w lies inside some interval of outer on the same day
func (w WeeklySchedule) FitsInto(outer WeeklySchedule) error {
	for _, d := range w.Days {
		outerDay, open := outer.Day(d.DayOfWeek)
		for _, interval := range d.Intervals {
			if !open || !outerDay.Covers(interval) {
				return fmt.Errorf("%w: %s [%s, %s)", ErrIntervalOutsideBusinessHours,
					d.DayOfWeek, interval.Start, interval.End)
			}
		}
	}
	return nil
}
