package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BusinessBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BusinessBooking/internal/usecase/create_booking"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgConcurrentBooking  = "слот бронируется параллельно, повторите запрос"
	msgServiceNotFound    = "услуга не найдена"
	msgBrokenService      = "услуга привязана к несуществующей компании или сотруднику"
	msgInvalidRequest     = "некорректный запрос на бронирование"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Все позиции создаются атомарно: либо все, либо ни одной.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		var slotErr *domain.SlotUnavailableError

		switch {
		case errors.As(err, &slotErr):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, service_id=%d, reason=%s",
				userID, slotErr.ServiceID, slotErr.Reason)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Code:      http.StatusConflict,
				Message:   msgSlotNotAvailable,
				ServiceID: slotErr.ServiceID,
				Reason:    slotErr.Reason,
			})

		case errors.Is(err, createBooking.ErrConcurrentBooking):
			h.logger.Warn("POST /bookings - Concurrent booking: user_id=%d", userID)
			handlers.RespondConflict(w, msgConcurrentBooking)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, error=%v", userID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrBrokenServiceLink):
			h.logger.Warn("POST /bookings - Broken service link: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgBrokenService)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Bookings created: user_id=%d, count=%d", userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
