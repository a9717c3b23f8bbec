package models

import (
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// UpdateSettingsRequest запрос на обновление настроек.
// Все поля опциональны - обновляются только переданные значения.
type UpdateSettingsRequest struct {
	AutoConfirmBookings  *bool `json:"autoConfirmBookings,omitempty"`
	BookingBufferMinutes *int  `json:"bookingBufferMinutes,omitempty" validate:"omitempty,min=0,max=1440"`
}

// SettingsResponse ответ с настройками бронирования компании
type SettingsResponse struct {
	BusinessID           int64 `json:"businessId"`
	AutoConfirmBookings  bool  `json:"autoConfirmBookings"`
	BookingBufferMinutes int   `json:"bookingBufferMinutes"`
	IsDefault            bool  `json:"isDefault"`
}

// FromDomainSettings конвертирует доменные настройки в DTO
func FromDomainSettings(businessID int64, s domain.BusinessSettings, isDefault bool) *SettingsResponse {
	return &SettingsResponse{
		BusinessID:           businessID,
		AutoConfirmBookings:  s.AutoConfirmBookings,
		BookingBufferMinutes: int(s.BookingBufferTime / time.Minute),
		IsDefault:            isDefault,
	}
}
