package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func bookingRow(id int64, start time.Time, status domain.BookingStatus) []driver.Value {
	return []driver.Value{
		id, int64(7), int64(3), int64(11), int64(5),
		start, start.Add(30 * time.Minute), string(status), "25.50", nil,
		start.Add(-time.Hour), nil, start.Add(-time.Hour),
	}
}

func TestCreateBatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	now := start.Add(-24 * time.Hour)
	bookings := []*domain.Booking{
		{UserID: 7, ServiceID: 3, EmployeeID: 11, BusinessID: 5, StartTime: start, EndTime: start.Add(30 * time.Minute),
			Status: domain.StatusPending, FinalPrice: decimal.RequireFromString("25.50"), CreatedAt: now},
		{UserID: 7, ServiceID: 4, EmployeeID: 12, BusinessID: 5, StartTime: start, EndTime: start.Add(time.Hour),
			Status: domain.StatusPending, FinalPrice: decimal.RequireFromString("40"), CreatedAt: now},
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).
			AddRow(int64(100), now).
			AddRow(int64(101), now))

	created, err := repo.CreateBatch(context.Background(), bookings)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(100), created[0].ID)
	assert.Equal(t, int64(101), created[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchRowCountMismatch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	bookings := []*domain.Booking{{UserID: 1}, {UserID: 2}}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(int64(1), time.Now()))

	_, err := repo.CreateBatch(context.Background(), bookings)
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id")).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow(42, start, domain.StatusActive)...))

	b, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, b.Status)
	assert.True(t, decimal.RequireFromString("25.5").Equal(b.FinalPrice))
	assert.Nil(t, b.Note)
	assert.Nil(t, b.ConfirmedAt)
	assert.Equal(t, 30*time.Minute, b.Duration())
}

func TestGetBlockingByEmployeeOverlapsWindow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	dayStart := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	from := dayStart.Add(-15 * time.Minute)
	to := dayStart.Add(24*time.Hour + 15*time.Minute)

	// бронирование с предыдущего дня, заканчивающееся после полуночи
	mock.ExpectQuery(regexp.QuoteMeta("WHERE employee_id = $1 AND status IN ($2,$3) AND end_time > $4 AND start_time < $5 ORDER BY start_time ASC")).
		WithArgs(int64(11), "pending", "active", from, to).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow(1, dayStart.Add(-15*time.Minute), domain.StatusActive)...))

	bookings, err := repo.GetBlockingByEmployee(context.Background(), 11, from, to)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].StartTime.Before(dayStart))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByBusinessIDFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	date := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	status := domain.StatusPending

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE business_id = $1 AND status = $2 AND start_time >= $3 AND start_time < $4 ORDER BY start_time ASC")).
		WithArgs(int64(5), "pending", dayStart, dayStart.Add(24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(bookingRow(1, dayStart.Add(9*time.Hour), domain.StatusPending)...).
			AddRow(bookingRow(2, dayStart.Add(11*time.Hour), domain.StatusPending)...))

	got, err := repo.GetByBusinessID(context.Background(), 5, &status, &date)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByBusinessIDWithoutFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE business_id = $1 ORDER BY start_time ASC")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.GetByBusinessID(context.Background(), 5, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBlockingByEmployeeLocksInsideTx(t *testing.T) {
	db, mock := newMock(t)
	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)

	mock.ExpectBegin()
	from := time.Date(2026, 10, 19, 9, 45, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY start_time ASC FOR UPDATE")).
		WithArgs(int64(11), "pending", "active", from, to).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	bookings, err := repo.GetBlockingByEmployee(ctx, 11, from, to)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockEmployee(t *testing.T) {
	db, mock := newMock(t)
	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)

	assert.ErrorIs(t, repo.LockEmployee(context.Background(), 11), ErrNotInTransaction)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.LockEmployee(dbmetrics.WithTx(context.Background(), tx), 11))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	confirmed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW(), confirmed_at = $2 WHERE id = $3 AND status = $4")).
		WithArgs("active", confirmed, int64(9), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 9, domain.StatusPending, domain.StatusActive, &confirmed))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("canceled", int64(10), "active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 10, domain.StatusActive, domain.StatusCanceled, nil)
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteExpired(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE status = $2 AND end_time < $3")).
		WithArgs("complete", "active", now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.CompleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestExistsWithStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM bookings WHERE user_id = $1 AND business_id = $2 AND status = $3)")).
		WithArgs(int64(7), int64(5), "complete").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsWithStatus(context.Background(), 7, 5, domain.StatusComplete)
	require.NoError(t, err)
	assert.True(t, ok)
}
