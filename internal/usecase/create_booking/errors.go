package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrEmptyRequest возвращается, когда список позиций пуст
	ErrEmptyRequest = fmt.Errorf("%w: no booking items", domain.ErrInvalidInput)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid booking request", domain.ErrInvalidInput)

	// ErrServiceNotFound возвращается, когда хотя бы одна услуга не найдена
	ErrServiceNotFound = fmt.Errorf("%w: service", domain.ErrNotFound)

	// ErrBrokenServiceLink услуга ссылается на несуществующую компанию или сотрудника
	ErrBrokenServiceLink = fmt.Errorf("%w: service references a missing business or employee", domain.ErrInvalidInput)

	// ErrConcurrentBooking транзакция не прошла из-за параллельных бронирований даже после повторов
	ErrConcurrentBooking = fmt.Errorf("%w: concurrent booking in progress, retry later", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
