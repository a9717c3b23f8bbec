package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking", domain.ErrNotFound)

	// ErrAccessDenied бронирование принадлежит другому пользователю или компании
	ErrAccessDenied = fmt.Errorf("%w: booking belongs to someone else", domain.ErrAccessDenied)

	// ErrInvalidStatus статус неизвестен или не может быть запрошен этим участником
	ErrInvalidStatus = fmt.Errorf("%w: status not allowed for this actor", domain.ErrInvalidInput)

	// ErrTransitionNotAllowed из текущего статуса в запрошенный перейти нельзя
	ErrTransitionNotAllowed = fmt.Errorf("%w: status transition not allowed", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
