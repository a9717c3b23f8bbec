package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingConflictsWith(t *testing.T) {
	day := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: day.Add(hm(10, 0)), EndTime: day.Add(hm(10, 30)), Status: StatusActive}
	buffer := 15 * time.Minute
	duration := 30 * time.Minute

	tests := []struct {
		start time.Duration
		want  bool
	}{
		{hm(9, 0), false},
		{hm(9, 15), false}, // ends 09:45, exactly at buffered start
		{hm(9, 30), true},
		{hm(10, 0), true},
		{hm(10, 30), true},
		{hm(10, 45), false}, // starts exactly at buffered end
		{hm(11, 0), false},
	}

	for _, tt := range tests {
		start := day.Add(tt.start)
		got := b.ConflictsWith(start, start.Add(duration), buffer)
		assert.Equal(t, tt.want, got, "start %s", tt.start)
	}
}

func TestBusinessSettingsInitialStatus(t *testing.T) {
	assert.Equal(t, StatusActive, BusinessSettings{AutoConfirmBookings: true}.InitialBookingStatus())
	assert.Equal(t, StatusPending, BusinessSettings{AutoConfirmBookings: false}.InitialBookingStatus())
}
