package get_business_bookings

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BusinessBooking/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(businessID, actorBusinessID int64, statusStr, dateStr string) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		BusinessID:      businessID,
		ActorBusinessID: actorBusinessID,
	}

	if statusStr != "" {
		req.Status = ptr.Ptr(statusStr)
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid date format: %w", err)
		}
		req.Date = ptr.Ptr(date)
	}

	return req, nil
}
