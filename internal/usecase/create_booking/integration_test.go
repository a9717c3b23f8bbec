//go:build integration

package create_booking_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	createBooking "github.com/m04kA/SMC-BusinessBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
	"github.com/m04kA/SMC-BusinessBooking/pkg/metrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/txmanager"
)

// Запуск: TEST_DATABASE_DSN="postgres://..." go test -tags integration ./internal/usecase/create_booking/
// Схема пересоздаётся в указанной базе.

const schemaPath = "../../../migrations/001_init.sql"

type nopNotifier struct{}

func (nopNotifier) NotifyBookingRequested(*domain.Booking) {}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())

	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)

	_, err = db.Exec(`DROP TABLE IF EXISTS bookings, schedule_intervals, schedule_days,
		business_settings, services, employees, businesses CASCADE`)
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO businesses (id, name) VALUES (5, 'Barber');
		INSERT INTO employees (id, business_id, name) VALUES (11, 5, 'Alex');
		INSERT INTO services (id, business_id, employee_id, name, duration_minutes, price)
		VALUES (3, 5, 11, 'Haircut', 30, 25.50), (6, 5, 11, 'Beard trim', 30, 15);
		INSERT INTO business_settings (business_id, auto_confirm_bookings, booking_buffer_minutes) VALUES (5, TRUE, 15);
	`)
	require.NoError(t, err)

	return db
}

func newUseCase(db *sql.DB, retries int) *createBooking.UseCase {
	wrapped := dbmetrics.Wrap(db, nil)
	var m *metrics.Metrics

	return createBooking.NewUseCase(
		bookingRepo.NewRepository(wrapped),
		catalogRepo.NewRepository(wrapped),
		txmanager.NewTransactionManager(wrapped).WithMaxRetries(retries),
		nopNotifier{},
		m,
		domain.DefaultBookingPolicy(),
		logger.NewNop(),
	)
}

func countBookings(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&n))
	return n
}

func weekAhead() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
}

func TestConcurrentOverlappingBookingsOnPostgres(t *testing.T) {
	db := openTestDB(t)
	uc := newUseCase(db, 5)
	day := weekAhead()

	const workers = 12
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
			start := day.Add(10*time.Hour + time.Duration(user%3)*10*time.Minute)
			_, err := uc.Execute(context.Background(), &createBooking.Request{
				UserID: user,
				Items:  []createBooking.Item{{ServiceID: 3, StartTime: start}},
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, countBookings(t, db))
}

func TestBookingAcrossMidnightOnPostgres(t *testing.T) {
	db := openTestDB(t)
	uc := newUseCase(db, 3)
	day := weekAhead()

	_, err := uc.Execute(context.Background(), &createBooking.Request{
		UserID: 1,
		Items:  []createBooking.Item{{ServiceID: 3, StartTime: day.Add(23*time.Hour + 45*time.Minute)}},
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &createBooking.Request{
		UserID: 2,
		Items:  []createBooking.Item{{ServiceID: 6, StartTime: day.Add(24 * time.Hour)}},
	})
	var slotErr *domain.SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, int64(6), slotErr.ServiceID)

	assert.Equal(t, 1, countBookings(t, db))
}

func TestServiceEmployeeMustBelongToServiceBusiness(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO businesses (id, name) VALUES (6, 'Spa')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO services (id, business_id, employee_id, name, duration_minutes, price)
		VALUES (7, 6, 11, 'Massage', 60, 40)`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO bookings (user_id, service_id, employee_id, business_id, start_time, end_time, status, final_price)
		VALUES (1, 3, 11, 6, NOW() + INTERVAL '1 day', NOW() + INTERVAL '1 day 30 minutes', 'active', 25.50)`)
	assert.Error(t, err)
}
