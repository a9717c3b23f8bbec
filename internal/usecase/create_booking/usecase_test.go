package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
	"github.com/m04kA/SMC-BusinessBooking/pkg/ptr"
	"github.com/m04kA/SMC-BusinessBooking/pkg/txmanager"
)

func single(serviceID int64, start time.Time) *Request {
	return &Request{UserID: 7, Items: []Item{{ServiceID: serviceID, StartTime: start}}}
}

func TestExecutePendingWithoutAutoConfirm(t *testing.T) {
	f := newFixture(false)

	resp, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	b := resp.Bookings[0]
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, at(nextMonday, 10, 30), b.EndTime)
	assert.Equal(t, int64(11), b.EmployeeID)
	assert.Equal(t, int64(5), b.BusinessID)
	assert.Equal(t, testNow, b.CreatedAt)
	assert.NotZero(t, b.ID)

	require.Len(t, f.notifier.requested, 1)
	assert.Equal(t, b.ID, f.notifier.requested[0].ID)
	assert.Equal(t, 1, f.metrics.created["pending"])
}

func TestExecuteActiveWithAutoConfirm(t *testing.T) {
	f := newFixture(true)

	resp, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, resp.Bookings[0].Status)
	assert.Empty(t, f.notifier.requested)
}

func TestExecuteConvertsStartToUTC(t *testing.T) {
	f := newFixture(true)
	moscow := time.FixedZone("MSK", 3*60*60)

	resp, err := f.uc.Execute(context.Background(), single(3, time.Date(2026, 10, 19, 13, 0, 0, 0, moscow)))
	require.NoError(t, err)

	assert.Equal(t, at(nextMonday, 10, 0), resp.Bookings[0].StartTime)
	assert.Equal(t, time.UTC, resp.Bookings[0].StartTime.Location())
}

func TestExecuteEmptyRequest(t *testing.T) {
	f := newFixture(false)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7})
	assert.ErrorIs(t, err, ErrEmptyRequest)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecuteUnknownServiceRejectsBatch(t *testing.T) {
	f := newFixture(false)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, Items: []Item{
		{ServiceID: 3, StartTime: at(nextMonday, 10, 0)},
		{ServiceID: 99, StartTime: at(nextMonday, 11, 0)},
	}})

	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "99")
	assert.Empty(t, f.store.bookings)
}

func TestExecuteBrokenEmployeeLink(t *testing.T) {
	f := newFixture(false)
	delete(f.catalog.employees, 12)

	_, err := f.uc.Execute(context.Background(), single(4, at(nextMonday, 10, 0)))
	assert.ErrorIs(t, err, ErrBrokenServiceLink)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecuteEmployeeOfAnotherBusiness(t *testing.T) {
	f := newFixture(false)
	f.catalog.employees[12] = &domain.Employee{ID: 12, BusinessID: 9, Name: "Sam"}

	_, err := f.uc.Execute(context.Background(), single(4, at(nextMonday, 10, 0)))
	assert.ErrorIs(t, err, ErrBrokenServiceLink)
	assert.Empty(t, f.store.bookings)
}

func TestExecuteConflictNamesServiceAndRollsBack(t *testing.T) {
	f := newFixture(true)
	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	require.NoError(t, err)

	// service 4 is free, service 6 overlaps the buffered 10:00-10:30 booking of employee 11
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 8, Items: []Item{
		{ServiceID: 4, StartTime: at(nextMonday, 10, 0)},
		{ServiceID: 6, StartTime: at(nextMonday, 10, 40)},
	}})

	var slotErr *domain.SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, int64(6), slotErr.ServiceID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Len(t, f.store.bookings, 1)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecuteBufferBoundaryIsFree(t *testing.T) {
	f := newFixture(true)
	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), single(6, at(nextMonday, 10, 45)))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), single(6, at(nextMonday, 9, 15)))
	require.NoError(t, err)

	assert.Len(t, f.store.bookings, 3)
}

func TestExecuteCanceledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(true)
	f.store.bookings = append(f.store.bookings, &domain.Booking{
		ID: 50, EmployeeID: 11, StartTime: at(nextMonday, 10, 0), EndTime: at(nextMonday, 10, 30), Status: domain.StatusCanceled,
	})

	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	assert.NoError(t, err)
}

func TestExecuteLeadTime(t *testing.T) {
	f := newFixture(true)

	_, err := f.uc.Execute(context.Background(), single(3, testNow.Add(domain.DefaultMinLeadTime)))
	var slotErr *domain.SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, int64(3), slotErr.ServiceID)

	_, err = f.uc.Execute(context.Background(), single(3, testNow.Add(domain.DefaultMinLeadTime+time.Minute)))
	assert.NoError(t, err)
}

func TestExecuteItemsInOneCallAreNotCheckedAgainstEachOther(t *testing.T) {
	f := newFixture(true)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 7, Items: []Item{
		{ServiceID: 3, StartTime: at(nextMonday, 10, 0)},
		{ServiceID: 6, StartTime: at(nextMonday, 10, 0)},
	}})

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestExecuteLocksEmployeesInAscendingOrder(t *testing.T) {
	f := newFixture(true)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 7, Items: []Item{
		{ServiceID: 4, StartTime: at(nextMonday, 10, 0)},
		{ServiceID: 3, StartTime: at(nextMonday, 12, 0)},
		{ServiceID: 6, StartTime: at(nextMonday, 14, 0)},
	}})
	require.NoError(t, err)

	assert.Equal(t, []int64{11, 12}, f.store.locked)
}

func TestExecuteSerializationRetriesExhausted(t *testing.T) {
	f := newFixture(true)
	f.tx.err = fmt.Errorf("%w: %w", txmanager.ErrSerializationFailure, &pq.Error{Code: "40001"})

	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	assert.ErrorIs(t, err, ErrConcurrentBooking)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecuteUnexpectedTxError(t *testing.T) {
	f := newFixture(true)
	f.tx.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecuteValidation(t *testing.T) {
	f := newFixture(true)
	long := make([]byte, domain.MaxNoteLength+1)
	for i := range long {
		long[i] = 'a'
	}

	cases := map[string]*Request{
		"no user":       {Items: []Item{{ServiceID: 3, StartTime: at(nextMonday, 10, 0)}}},
		"no service":    {UserID: 7, Items: []Item{{StartTime: at(nextMonday, 10, 0)}}},
		"no start":      {UserID: 7, Items: []Item{{ServiceID: 3}}},
		"note too long": {UserID: 7, Items: []Item{{ServiceID: 3, StartTime: at(nextMonday, 10, 0), Note: ptr.Ptr(string(long))}}},
	}

	for name, req := range cases {
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

// At most one of many concurrent requests for the same slot succeeds
// memTx runs transactions one at a time, so this only checks the check-then-insert flow.
// Advisory locks against PostgreSQL are covered by integration_test.go (build tag integration).
func TestExecuteConcurrentSameSlot(t *testing.T) {
	f := newFixture(true)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			// overlapping windows on the same employee
			start := at(nextMonday, 10, int(user%3)*10)
			_, err := f.uc.Execute(context.Background(), &Request{UserID: user, Items: []Item{{ServiceID: 3, StartTime: start}}})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, domain.ErrConflict) {
				conflicts++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.store.bookings, 1)
}

func TestFinalPriceIsSnapshot(t *testing.T) {
	f := newFixture(true)

	resp, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 10, 0)))
	require.NoError(t, err)

	f.catalog.services[3].Price = decimal.RequireFromString("99")

	stored := f.store.bookings[0]
	assert.True(t, decimal.RequireFromString("25.50").Equal(stored.FinalPrice))
	assert.True(t, decimal.RequireFromString("25.50").Equal(resp.Bookings[0].FinalPrice))
}

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

// Every slot quoted by the availability calculator is accepted when submitted right away
func TestQuotedSlotsAreBookable(t *testing.T) {
	hours := []domain.TimeInterval{
		{Start: 9 * time.Hour, End: 12 * time.Hour},
		{Start: 13 * time.Hour, End: 15 * time.Hour},
	}
	schedules := fakeSchedules{
		{domain.OwnerBusiness, 5, time.Monday}:    hours,
		{domain.OwnerEmployee, 11, time.Monday}:   hours,
		{domain.OwnerBusiness, 5, time.Thursday}:  hours,
		{domain.OwnerEmployee, 11, time.Thursday}: hours,
	}
	existing := &domain.Booking{
		ID: 1, EmployeeID: 11, BusinessID: 5, Status: domain.StatusActive,
	}

	for _, day := range []time.Time{nextMonday, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)} {
		base := newFixture(true)
		booked := *existing
		booked.StartTime = at(day, 11, 0)
		booked.EndTime = at(day, 11, 30)
		base.store.bookings = []*domain.Booking{&booked}

		slotsUC := get_available_slots.NewUseCase(base.store, schedules, base.catalog, domain.DefaultBookingPolicy(), logger.NewNop()).
			WithTimeProvider(fixedTime{now: testNow})

		quoted, err := slotsUC.Execute(context.Background(), &get_available_slots.Request{ServiceID: 3, Date: day})
		require.NoError(t, err)
		require.NotEmpty(t, quoted.Slots)

		for _, slot := range quoted.Slots {
			f := newFixture(true)
			bookedCopy := booked
			f.store.bookings = []*domain.Booking{&bookedCopy}

			_, err := f.uc.Execute(context.Background(), single(3, slot))
			assert.NoError(t, err, "slot %s", slot)
		}
	}
}

func TestExecuteBookingAcrossMidnightBlocksNextDay(t *testing.T) {
	f := newFixture(true)
	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 23, 45)))
	require.NoError(t, err)

	// 23:45-00:15 occupies the start of Tuesday
	_, err = f.uc.Execute(context.Background(), single(6, at(nextMonday, 24, 0)))
	var slotErr *domain.SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, int64(6), slotErr.ServiceID)

	assert.Len(t, f.store.bookings, 1)
}

func TestExecuteBufferAcrossMidnight(t *testing.T) {
	f := newFixture(true)
	_, err := f.uc.Execute(context.Background(), single(3, at(nextMonday, 23, 20)))
	require.NoError(t, err)

	// ends 23:50, buffer keeps the employee busy until 00:05
	_, err = f.uc.Execute(context.Background(), single(6, at(nextMonday, 24, 0)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Execute(context.Background(), single(6, at(nextMonday, 24, 5)))
	require.NoError(t, err)

	// a Monday evening booking must respect a Tuesday booking as well
	_, err = f.uc.Execute(context.Background(), single(4, at(nextMonday, 24, 0)))
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), single(4, at(nextMonday, 23, 0)))
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Execute(context.Background(), single(4, at(nextMonday, 22, 45)))
	require.NoError(t, err)

	assert.Len(t, f.store.bookings, 4)
}
