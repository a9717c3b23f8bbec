package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// generateSlots строит список времён начала, доступных для бронирования на день.
//
// Кандидаты идут с шагом policy.SlotStep от начала каждого рабочего интервала компании,
// пока услуга целиком помещается в интервал. Кандидат раньше now+MinLeadTime
// сдвигается на первую точку сетки строго после этого момента.
// Кандидат отбрасывается, если пересекается с существующим бронированием,
// расширенным на buffer с обеих сторон.
func generateSlots(
	day time.Time,
	intervals []domain.TimeInterval,
	duration time.Duration,
	buffer time.Duration,
	existing []*domain.Booking,
	now time.Time,
	policy domain.BookingPolicy,
) []time.Time {
	slots := make([]time.Time, 0)
	if duration <= 0 || policy.SlotStep <= 0 {
		return slots
	}

	dayStart := startOfDay(day)
	earliest := now.UTC().Add(policy.MinLeadTime)

	for _, interval := range intervals {
		candidate := dayStart.Add(interval.Start)
		intervalEnd := dayStart.Add(interval.End)

		if !candidate.After(earliest) {
			candidate = nextGridPoint(candidate, earliest, policy.SlotStep)
		}

		for end := candidate.Add(duration); !end.After(intervalEnd); end = candidate.Add(duration) {
			if isFree(candidate, end, buffer, existing) {
				slots = append(slots, candidate)
			}
			candidate = candidate.Add(policy.SlotStep)
		}
	}

	return slots
}

// nextGridPoint первая точка сетки origin + k*step, строго большая after
func nextGridPoint(origin, after time.Time, step time.Duration) time.Time {
	steps := after.Sub(origin)/step + 1
	return origin.Add(steps * step)
}

// isFree проверяет, что [start, end) не пересекается ни с одним бронированием с учётом буфера
func isFree(start, end time.Time, buffer time.Duration, existing []*domain.Booking) bool {
	for _, b := range existing {
		if !b.BlocksSchedule() {
			continue
		}
		if b.ConflictsWith(start, end, buffer) {
			return false
		}
	}
	return true
}

// startOfDay полночь UTC того же календарного дня
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
