package create_booking

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memStore in-memory booking store; rolled back by memTx on error
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
	locked   []int64
}

func (s *memStore) LockEmployee(_ context.Context, employeeID int64) error {
	s.locked = append(s.locked, employeeID)
	return nil
}

func (s *memStore) GetBlockingByEmployee(_ context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.EmployeeID != employeeID || !b.BlocksSchedule() {
			continue
		}
		if !b.EndTime.After(from) || !b.StartTime.Before(to) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memStore) CreateBatch(_ context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	for _, b := range bookings {
		s.nextID++
		b.ID = s.nextID
		b.UpdatedAt = b.CreatedAt
		copied := *b
		s.bookings = append(s.bookings, &copied)
	}
	return bookings, nil
}

// memTx serializes transactions on the store mutex and restores the snapshot on error
type memTx struct {
	store *memStore
	err   error // forced error, returned without running fn
}

func (m *memTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := append([]*domain.Booking(nil), m.store.bookings...)
	nextID := m.store.nextID
	if err := fn(ctx); err != nil {
		m.store.bookings = snapshot
		m.store.nextID = nextID
		return err
	}
	return nil
}

type fakeCatalog struct {
	services   map[int64]*domain.Service
	businesses map[int64]*domain.Business
	employees  map[int64]*domain.Employee
}

func (f *fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
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

type fakeNotifier struct {
	mu        sync.Mutex
	requested []*domain.Booking
}

func (f *fakeNotifier) NotifyBookingRequested(b *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, b)
}

type fakeMetrics struct {
	mu        sync.Mutex
	created   map[string]int
	conflicts int
}

func (f *fakeMetrics) IncBookingsCreated(status string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created == nil {
		f.created = make(map[string]int)
	}
	f.created[status] += n
}

func (f *fakeMetrics) IncBookingConflicts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conflicts++
}

// Thursday 2026-10-15 10:00 UTC
var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

// Monday after testNow
var nextMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	uc       *UseCase
	store    *memStore
	tx       *memTx
	catalog  *fakeCatalog
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

// newFixture business 5 (buffer 15m) with employees 11 and 12;
// service 3 (30m, employee 11), service 4 (60m, employee 12), service 6 (30m, employee 11)
func newFixture(autoConfirm bool) *fixture {
	store := &memStore{}
	tx := &memTx{store: store}
	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{
			3: {ID: 3, BusinessID: 5, EmployeeID: 11, Name: "Haircut", Duration: 30 * time.Minute, Price: decimal.RequireFromString("25.50")},
			4: {ID: 4, BusinessID: 5, EmployeeID: 12, Name: "Coloring", Duration: time.Hour, Price: decimal.RequireFromString("60")},
			6: {ID: 6, BusinessID: 5, EmployeeID: 11, Name: "Beard trim", Duration: 30 * time.Minute, Price: decimal.RequireFromString("15")},
		},
		businesses: map[int64]*domain.Business{
			5: {ID: 5, Name: "Barber", Settings: domain.BusinessSettings{
				AutoConfirmBookings: autoConfirm,
				BookingBufferTime:   15 * time.Minute,
			}},
		},
		employees: map[int64]*domain.Employee{
			11: {ID: 11, BusinessID: 5, Name: "Alex"},
			12: {ID: 12, BusinessID: 5, Name: "Sam"},
		},
	}
	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(store, catalog, tx, notifier, metrics, domain.DefaultBookingPolicy(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: testNow})

	return &fixture{uc: uc, store: store, tx: tx, catalog: catalog, notifier: notifier, metrics: metrics}
}
