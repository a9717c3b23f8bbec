package get_schedule

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/schedule/models"
)

const (
	msgInvalidOwnerID = "некорректный ID"
	msgNotFound       = "владелец расписания не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleBusiness GET /api/v1/businesses/{businessId}/schedule
func (h *Handler) HandleBusiness(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "businessId", "GET /businesses/{id}/schedule", h.service.GetBusinessWeek)
}

// HandleEmployee GET /api/v1/employees/{employeeId}/schedule
func (h *Handler) HandleEmployee(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "employeeId", "GET /employees/{id}/schedule", h.service.GetEmployeeWeek)
}

func (h *Handler) handle(
	w http.ResponseWriter,
	r *http.Request,
	idVar, route string,
	get func(ctx context.Context, ownerID int64) (*models.WeekResponse, error),
) {
	ownerID, err := handlers.PathID(r, idVar)
	if err != nil {
		h.logger.Warn("%s - Invalid ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	result, err := get(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Warn("%s - Owner not found: id=%d", route, ownerID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("%s - Failed to get schedule: id=%d, error=%v", route, ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
