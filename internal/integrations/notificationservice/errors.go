package notificationservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notificationservice client: internal error")

	// ErrRejected сервис отклонил уведомление, повтор не поможет
	ErrRejected = errors.New("notificationservice client: notification rejected")

	// ErrUnavailable сервис недоступен или ответил 5xx, запрос можно повторить
	ErrUnavailable = errors.New("notificationservice client: service unavailable")
)
