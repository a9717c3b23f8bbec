package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда компания не найдена
	ErrBusinessNotFound = fmt.Errorf("%w: business not found", domain.ErrNotFound)

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = fmt.Errorf("%w: employee not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда расписание меняет чужая компания
	ErrAccessDenied = fmt.Errorf("%w: schedule belongs to another business", domain.ErrAccessDenied)

	// ErrInvalidSchedule возвращается при некорректном расписании
	ErrInvalidSchedule = fmt.Errorf("%w: invalid schedule", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
