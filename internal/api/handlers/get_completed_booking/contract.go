package get_completed_booking

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings/models"
)

type BookingService interface {
	UserHasCompletedBooking(ctx context.Context, userID, businessID int64) (*models.CompletedBookingResponse, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
