package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BusinessBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID компании"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingBusinessID  = "отсутствует ID компании"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается status: active или canceled"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidStatus      = "недопустимый статус"
	msgNotAllowed         = "смена статуса недоступна для текущего состояния бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/businesses/{businessId}/bookings/{bookingId}/status
// Компания подтверждает (active) или отклоняет (canceled) бронирование.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actorID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Заголовок должен совпадать с компанией из пути
	if actorID != businessID {
		h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Business mismatch: path=%d, header=%d",
			businessID, actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetStatusByBusiness(r.Context(), bookingID, businessID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Access denied: booking_id=%d, business_id=%d",
				bookingID, businessID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrTransitionNotAllowed):
			h.logger.Warn("PATCH /businesses/{id}/bookings/{id}/status - Transition not allowed: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondConflict(w, msgNotAllowed)

		default:
			h.logger.Error("PATCH /businesses/{id}/bookings/{id}/status - Failed to update status: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /businesses/{id}/bookings/{id}/status - Status updated: booking_id=%d, status=%s",
		bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
