package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64
	Date      time.Time // дата без времени, интерпретируется в UTC
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID int64
	Date      time.Time
	Slots     []time.Time // UTC, по возрастанию
}
