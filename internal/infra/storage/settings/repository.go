package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/psqlbuilder"
)

const table = "business_settings"

// Repository репозиторий настроек бронирования компаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessID получает настройки компании
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("auto_confirm_bookings", "booking_buffer_minutes").
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.BusinessSettings
	var bufferMinutes int

	err = executor.QueryRowContext(ctx, query, args...).Scan(&settings.AutoConfirmBookings, &bufferMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - scan settings: %v", ErrScanRow, err)
	}

	settings.BookingBufferTime = time.Duration(bufferMinutes) * time.Minute

	return &settings, nil
}

// Upsert создаёт или перезаписывает настройки компании
func (r *Repository) Upsert(ctx context.Context, businessID int64, settings domain.BusinessSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("business_id", "auto_confirm_bookings", "booking_buffer_minutes").
		Values(businessID, settings.AutoConfirmBookings, int(settings.BookingBufferTime/time.Minute)).
		Suffix("ON CONFLICT (business_id) DO UPDATE SET " +
			"auto_confirm_bookings = EXCLUDED.auto_confirm_bookings, " +
			"booking_buffer_minutes = EXCLUDED.booking_buffer_minutes, " +
			"updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет настройки, после чего действуют значения по умолчанию
func (r *Repository) Delete(ctx context.Context, businessID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
