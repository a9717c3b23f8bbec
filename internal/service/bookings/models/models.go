package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос компании на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active canceled"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBusinessBookingsRequest запрос компании на список её бронирований
type GetBusinessBookingsRequest struct {
	BusinessID      int64
	ActorBusinessID int64
	Status          *string
	Date            *time.Time // день в UTC
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ServiceID   int64      `json:"serviceId"`
	EmployeeID  int64      `json:"employeeId"`
	BusinessID  int64      `json:"businessId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Status      string     `json:"status"`
	FinalPrice  string     `json:"finalPrice"` // десятичная строка, "25.50"
	Note        *string    `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CompletedBookingResponse ответ на проверку завершённого бронирования
type CompletedBookingResponse struct {
	UserID       int64 `json:"userId"`
	BusinessID   int64 `json:"businessId"`
	HasCompleted bool  `json:"hasCompleted"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		ServiceID:   b.ServiceID,
		EmployeeID:  b.EmployeeID,
		BusinessID:  b.BusinessID,
		StartTime:   b.StartTime.UTC(),
		EndTime:     b.EndTime.UTC(),
		Status:      string(b.Status),
		FinalPrice:  b.FinalPrice.StringFixed(2),
		Note:        b.Note,
		CreatedAt:   b.CreatedAt,
		ConfirmedAt: b.ConfirmedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
