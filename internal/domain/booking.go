package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusActive   BookingStatus = "active"
	StatusCanceled BookingStatus = "canceled"
	StatusComplete BookingStatus = "complete"
)

// Valid returns true if the status is one of the known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCanceled, StatusComplete:
		return true
	}
	return false
}

// Booking represents a booked service slot.
// EndTime is fixed at creation (StartTime + service duration) and FinalPrice
// is a snapshot of the service price at that moment.
type Booking struct {
	ID         int64
	UserID     int64
	ServiceID  int64
	EmployeeID int64 // denormalized from Service
	BusinessID int64 // denormalized from Service
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	FinalPrice decimal.Decimal
	Note       *string

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	UpdatedAt   time.Time
}

// BlocksSchedule returns true if the booking occupies the employee's calendar
func (b *Booking) BlocksSchedule() bool {
	return b.Status == StatusPending || b.Status == StatusActive
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCanceled || b.Status == StatusComplete
}

// Duration returns the length of the booked interval
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// ConflictsWith reports whether [start, end) overlaps the booking padded by buffer on both sides
func (b *Booking) ConflictsWith(start, end time.Time, buffer time.Duration) bool {
	return start.Before(b.EndTime.Add(buffer)) && end.After(b.StartTime.Add(-buffer))
}
