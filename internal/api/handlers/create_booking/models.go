package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-BusinessBooking/internal/usecase/create_booking"
)

// CreateBookingsRequest HTTP request model
type CreateBookingsRequest struct {
	Items []BookingItem `json:"items" validate:"required,min=1,dive"`
}

// BookingItem одна позиция запроса
type BookingItem struct {
	ServiceID int64     `json:"serviceId" validate:"required,gt=0"`
	StartTime time.Time `json:"startTime" validate:"required"` // RFC3339, любая зона
	Note      *string   `json:"note,omitempty"`
}

// ConflictResponse тело ответа 409 с указанием услуги, слот которой занят
type ConflictResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ServiceID int64  `json:"serviceId"`
	Reason    string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingsRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	items := make([]createBooking.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, createBooking.Item{
			ServiceID: item.ServiceID,
			StartTime: item.StartTime,
			Note:      item.Note,
		})
	}

	return &createBooking.Request{
		UserID: userID,
		Items:  items,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingListResponse {
	return models.FromDomainBookingList(resp.Bookings)
}
