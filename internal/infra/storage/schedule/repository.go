package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/psqlbuilder"
)

const (
	daysTable      = "schedule_days"
	intervalsTable = "schedule_intervals"
)

// Repository хранит недельные расписания компаний и сотрудников.
// День недели лежит в schedule_days, интервалы (в минутах от полуночи) в schedule_intervals.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDaySchedule возвращает расписание владельца на день недели.
// false означает, что в этот день владелец не работает.
func (r *Repository) GetDaySchedule(ctx context.Context, ownerType domain.ScheduleOwnerType, ownerID int64, day time.Weekday) (domain.DaySchedule, bool, error) {
	week, err := r.query(ctx, ownerType, ownerID, squirrel.Eq{"d.day_of_week": int(day)})
	if err != nil {
		return domain.DaySchedule{}, false, fmt.Errorf("GetDaySchedule: %w", err)
	}

	ds, ok := week.Day(day)
	return ds, ok, nil
}

// GetWeek возвращает всё недельное расписание владельца
func (r *Repository) GetWeek(ctx context.Context, ownerType domain.ScheduleOwnerType, ownerID int64) (*domain.WeeklySchedule, error) {
	week, err := r.query(ctx, ownerType, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("GetWeek: %w", err)
	}
	return week, nil
}

// ReplaceWeek удаляет старое расписание владельца и записывает новое.
// Вызывать внутри транзакции: между DELETE и INSERT расписание пустое.
func (r *Repository) ReplaceWeek(ctx context.Context, week *domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Интервалы удаляются каскадом
	query, args, err := psqlbuilder.Delete(daysTable).
		Where(squirrel.Eq{"owner_type": week.OwnerType}).
		Where(squirrel.Eq{"owner_id": week.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeek - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeek - execute delete: %w", ErrExecQuery, err)
	}

	for _, day := range week.Days {
		if len(day.Intervals) == 0 {
			continue
		}

		query, args, err := psqlbuilder.Insert(daysTable).
			Columns("owner_type", "owner_id", "day_of_week").
			Values(week.OwnerType, week.OwnerID, int(day.DayOfWeek)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeek - build day insert: %v", ErrBuildQuery, err)
		}

		var dayID int64
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&dayID); err != nil {
			return fmt.Errorf("%w: ReplaceWeek - insert day %s: %w", ErrExecQuery, day.DayOfWeek, err)
		}

		insert := psqlbuilder.Insert(intervalsTable).Columns("day_id", "start_minute", "end_minute")
		for _, interval := range day.Intervals {
			insert = insert.Values(dayID, toMinutes(interval.Start), toMinutes(interval.End))
		}

		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceWeek - build interval insert: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceWeek - insert intervals %s: %w", ErrExecQuery, day.DayOfWeek, err)
		}
	}

	return nil
}

func (r *Repository) query(ctx context.Context, ownerType domain.ScheduleOwnerType, ownerID int64, extra squirrel.Sqlizer) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("d.day_of_week", "i.start_minute", "i.end_minute").
		From(daysTable + " d").
		Join(intervalsTable + " i ON i.day_id = d.id").
		Where(squirrel.Eq{"d.owner_type": ownerType}).
		Where(squirrel.Eq{"d.owner_id": ownerID}).
		OrderBy("d.day_of_week", "i.start_minute")

	if extra != nil {
		selectBuilder = selectBuilder.Where(extra)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWeek(rows, ownerType, ownerID)
}

func scanWeek(rows *sql.Rows, ownerType domain.ScheduleOwnerType, ownerID int64) (*domain.WeeklySchedule, error) {
	week := &domain.WeeklySchedule{OwnerType: ownerType, OwnerID: ownerID, Days: make([]domain.DaySchedule, 0)}

	for rows.Next() {
		var day, startMinute, endMinute int
		if err := rows.Scan(&day, &startMinute, &endMinute); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}

		interval := domain.TimeInterval{
			Start: time.Duration(startMinute) * time.Minute,
			End:   time.Duration(endMinute) * time.Minute,
		}

		// Строки отсортированы по дню, поэтому новый день всегда в конце
		n := len(week.Days)
		if n == 0 || week.Days[n-1].DayOfWeek != time.Weekday(day) {
			week.Days = append(week.Days, domain.DaySchedule{DayOfWeek: time.Weekday(day)})
			n++
		}
		week.Days[n-1].Intervals = append(week.Days[n-1].Intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return week, nil
}

func toMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
