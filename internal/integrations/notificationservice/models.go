package notificationservice

import "time"

// Kind тип уведомления
type Kind string

const (
	// KindBookingRequested компании пришла заявка на бронирование
	KindBookingRequested Kind = "booking_requested"
	// KindBookingConfirmed компания подтвердила бронирование
	KindBookingConfirmed Kind = "booking_confirmed"
	// KindBookingRejected бронирование отклонено или отменено
	KindBookingRejected Kind = "booking_rejected"
)

// Recipient кому адресовано уведомление
type Recipient string

const (
	RecipientUser     Recipient = "user"
	RecipientBusiness Recipient = "business"
)

// Notification тело запроса в NotificationService
type Notification struct {
	Kind        Kind      `json:"kind"`
	Recipient   Recipient `json:"recipient"`
	RecipientID int64     `json:"recipientId"`
	BookingID   int64     `json:"bookingId"`
	ServiceID   int64     `json:"serviceId"`
	BusinessID  int64     `json:"businessId"`
	UserID      int64     `json:"userId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
}

// ErrorResponse модель ошибки от NotificationService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
