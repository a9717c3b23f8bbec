package replace_schedule

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BusinessBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/schedule/models"
)

const (
	msgInvalidOwnerID     = "некорректный ID"
	msgMissingBusinessID  = "отсутствует ID компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSchedule    = "некорректное расписание"
	msgNotFound           = "владелец расписания не найден"
	msgForbidden          = "доступ запрещен"
)

type replaceFunc func(ctx context.Context, ownerID, actorBusinessID int64, req *models.ReplaceWeekRequest) (*models.WeekResponse, error)

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

// HandleBusiness PUT /api/v1/businesses/{businessId}/schedule
// Расписание заменяется целиком, отсутствующие дни становятся выходными.
func (h *Handler) HandleBusiness(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "businessId", "PUT /businesses/{id}/schedule", h.service.ReplaceBusinessWeek)
}

// HandleEmployee PUT /api/v1/employees/{employeeId}/schedule
// Интервалы сотрудника должны лежать внутри часов работы компании.
func (h *Handler) HandleEmployee(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "employeeId", "PUT /employees/{id}/schedule", h.service.ReplaceEmployeeWeek)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, idVar, route string, replace replaceFunc) {
	ownerID, err := handlers.PathID(r, idVar)
	if err != nil {
		h.logger.Warn("%s - Invalid ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	actorID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	var req models.ReplaceWeekRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := replace(r.Context(), ownerID, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("%s - Invalid schedule: id=%d, error=%v", route, ownerID, err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidSchedule+": "+err.Error())

		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: id=%d, actor=%d", route, ownerID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("%s - Owner not found: id=%d", route, ownerID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("%s - Failed to replace schedule: id=%d, error=%v", route, ownerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Schedule replaced: id=%d, days=%d", route, ownerID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
