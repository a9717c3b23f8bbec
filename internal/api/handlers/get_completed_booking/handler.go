package get_completed_booking

import (
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
)

const (
	msgInvalidUserID     = "некорректный ID пользователя"
	msgInvalidBusinessID = "некорректный ID компании"
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

// Handle GET /api/v1/users/{userId}/businesses/{businessId}/completed-booking
// Используется сервисом отзывов: оставить отзыв можно только после завершённого визита.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{id}/businesses/{id}/completed-booking - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /users/{id}/businesses/{id}/completed-booking - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.UserHasCompletedBooking(r.Context(), userID, businessID)
	if err != nil {
		h.logger.Error("GET /users/{id}/businesses/{id}/completed-booking - Failed: user_id=%d, business_id=%d, error=%v",
			userID, businessID, err)
		status := handlers.StatusFromError(err)
		handlers.RespondError(w, status, http.StatusText(status))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
