package create_booking

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if len(req.Items) == 0 {
		return ErrEmptyRequest
	}

	if len(req.Items) > domain.MaxBookingItemsPerCall {
		return fmt.Errorf("%w: at most %d items per request", ErrInvalidInput, domain.MaxBookingItemsPerCall)
	}

	for i, item := range req.Items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: items[%d].serviceID must be positive", ErrInvalidInput, i)
		}
		if item.StartTime.IsZero() {
			return fmt.Errorf("%w: items[%d].startTime is required", ErrInvalidInput, i)
		}
		if item.Note != nil && utf8.RuneCountInString(*item.Note) > domain.MaxNoteLength {
			return fmt.Errorf("%w: items[%d].note longer than %d characters", ErrInvalidInput, i, domain.MaxNoteLength)
		}
	}

	return nil
}

// checkSlot проверяет позицию против уже существующих бронирований сотрудника.
// Возвращает *domain.SlotUnavailableError, если слот занят или слишком близко к now.
func checkSlot(plan plannedBooking, existing []*domain.Booking, now time.Time, minLeadTime time.Duration) error {
	if !plan.start.After(now.Add(minLeadTime)) {
		return &domain.SlotUnavailableError{
			ServiceID: plan.service.ID,
			Reason:    fmt.Sprintf("start must be later than %s from now", minLeadTime),
		}
	}

	buffer := plan.business.Settings.BookingBufferTime
	for _, b := range existing {
		if b.BlocksSchedule() && b.ConflictsWith(plan.start, plan.end, buffer) {
			return &domain.SlotUnavailableError{
				ServiceID: plan.service.ID,
				Reason:    fmt.Sprintf("overlaps booking %s-%s", b.StartTime.Format(domain.TimeFormat), b.EndTime.Format(domain.TimeFormat)),
			}
		}
	}

	return nil
}

// uniqueSorted возвращает уникальные значения по возрастанию
func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
