package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней
func validateDate(date, now time.Time) error {
	if date.Before(startOfDay(now)) {
		return fmt.Errorf("%w: %s", ErrDateInPast, date.Format("2006-01-02"))
	}
	return nil
}
