package domain

import "time"

// Default policy values
const (
	DefaultSlotStep          = 15 * time.Minute
	DefaultMinLeadTime       = 15 * time.Minute
	DefaultBookingBufferTime = 15 * time.Minute
)

// Business validation constants
const (
	MaxBookingBufferTime   = 24 * time.Hour
	MaxNoteLength          = 500
	MaxBookingItemsPerCall = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses statuses of bookings that occupy an employee's calendar
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusActive,
}

// BookingPolicy fixed scheduling policy shared by slot generation and booking creation.
// Not configurable per business.
type BookingPolicy struct {
	SlotStep    time.Duration // grid step for candidate start times
	MinLeadTime time.Duration // earliest bookable start is now + MinLeadTime
}

// DefaultBookingPolicy returns the production policy (15 min grid, 15 min lead time)
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		SlotStep:    DefaultSlotStep,
		MinLeadTime: DefaultMinLeadTime,
	}
}
