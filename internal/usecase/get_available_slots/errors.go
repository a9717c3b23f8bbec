package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service", domain.ErrNotFound)

	// ErrBrokenServiceLink услуга ссылается на несуществующую компанию или сотрудника
	ErrBrokenServiceLink = fmt.Errorf("%w: service references a missing business or employee", domain.ErrInvalidInput)

	// ErrDateInPast возвращается, когда дата раньше сегодняшней (UTC)
	ErrDateInPast = fmt.Errorf("%w: date is in the past", domain.ErrInvalidInput)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid request", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
