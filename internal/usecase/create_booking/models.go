package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// Request модель запроса на создание бронирований
type Request struct {
	UserID int64
	Items  []Item
}

// Item одна позиция запроса
type Item struct {
	ServiceID int64
	StartTime time.Time // переводится в UTC
	Note      *string
}

// Response созданные бронирования в порядке позиций запроса
type Response struct {
	Bookings []*domain.Booking
}

// plannedBooking позиция с разрешёнными услугой и компанией
type plannedBooking struct {
	service  *domain.Service
	business *domain.Business
	start    time.Time
	end      time.Time
	note     *string
}
