package settings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда компания не найдена
	ErrBusinessNotFound = fmt.Errorf("%w: business not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда настройки меняет другая компания
	ErrAccessDenied = fmt.Errorf("%w: settings belong to another business", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid settings", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
