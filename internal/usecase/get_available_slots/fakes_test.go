package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type scheduleKey struct {
	owner domain.ScheduleOwnerType
	id    int64
	day   time.Weekday
}

type fakeSchedules map[scheduleKey][]domain.TimeInterval

func (f fakeSchedules) GetDaySchedule(_ context.Context, ownerType domain.ScheduleOwnerType, ownerID int64, day time.Weekday) (domain.DaySchedule, bool, error) {
	intervals, ok := f[scheduleKey{ownerType, ownerID, day}]
	if !ok {
		return domain.DaySchedule{}, false, nil
	}
	return domain.DaySchedule{DayOfWeek: day, Intervals: intervals}, true, nil
}

type fakeCatalog struct {
	services   map[int64]*domain.Service
	businesses map[int64]*domain.Business
	employees  map[int64]*domain.Employee
}

func (f *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalog) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	if b, ok := f.businesses[id]; ok {
		return b, nil
	}
	return nil, catalogRepo.ErrBusinessNotFound
}

func (f *fakeCatalog) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, catalogRepo.ErrEmployeeNotFound
}

type fakeBookings struct {
	bookings []*domain.Booking
}

func (f *fakeBookings) GetBlockingByEmployee(_ context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.EmployeeID != employeeID || !b.BlocksSchedule() {
			continue
		}
		if !b.EndTime.After(from) || !b.StartTime.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func hm(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

func at(day time.Time, h, m int) time.Time {
	return startOfDay(day).Add(hm(h, m))
}

// Thursday 2026-10-15 10:00 UTC
var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

// Monday after testNow
var nextMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

// newFixture business 5 with employee 11 offering a 30-minute service 3,
// both open 09:00-12:00 on Monday and Thursday
func newFixture() (*UseCase, *fakeBookings, *fakeCatalog, fakeSchedules) {
	morning := []domain.TimeInterval{{Start: hm(9, 0), End: hm(12, 0)}}
	schedules := fakeSchedules{
		{domain.OwnerBusiness, 5, time.Monday}:    morning,
		{domain.OwnerEmployee, 11, time.Monday}:   morning,
		{domain.OwnerBusiness, 5, time.Thursday}:  morning,
		{domain.OwnerEmployee, 11, time.Thursday}: morning,
	}
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{
			3: {ID: 3, BusinessID: 5, EmployeeID: 11, Name: "Haircut", Duration: 30 * time.Minute},
		},
		businesses: map[int64]*domain.Business{
			5: {ID: 5, Name: "Barber", Settings: domain.BusinessSettings{BookingBufferTime: 15 * time.Minute}},
		},
		employees: map[int64]*domain.Employee{
			11: {ID: 11, BusinessID: 5, Name: "Alex"},
		},
	}
	bookings := &fakeBookings{}

	uc := NewUseCase(bookings, schedules, catalog, domain.DefaultBookingPolicy(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: testNow})

	return uc, bookings, catalog, schedules
}
