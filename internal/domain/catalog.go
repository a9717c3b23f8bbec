package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business a business accepting bookings
type Business struct {
	ID       int64
	Name     string
	Settings BusinessSettings
}

// Employee an employee of a business
type Employee struct {
	ID         int64
	BusinessID int64
	Name       string
}

// Service a bookable service. Belongs to exactly one business and one employee.
type Service struct {
	ID         int64
	BusinessID int64
	EmployeeID int64
	Name       string
	Duration   time.Duration
	Price      decimal.Decimal
}

// BusinessSettings booking-related business settings
type BusinessSettings struct {
	AutoConfirmBookings bool
	BookingBufferTime   time.Duration
}

// DefaultBusinessSettings settings used when a business has none stored
func DefaultBusinessSettings() BusinessSettings {
	return BusinessSettings{
		AutoConfirmBookings: false,
		BookingBufferTime:   DefaultBookingBufferTime,
	}
}

// InitialBookingStatus status of a freshly created booking
func (s BusinessSettings) InitialBookingStatus() BookingStatus {
	if s.AutoConfirmBookings {
		return StatusActive
	}
	return StatusPending
}
