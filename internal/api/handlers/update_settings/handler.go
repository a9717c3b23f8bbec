package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BusinessBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BusinessBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/settings"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/settings/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID компании"
	msgMissingBusinessID  = "отсутствует ID компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "компания не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные настройки, буфер должен быть от 0 до 1440 минут"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/settings
// Обновляются только переданные поля.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, actorID, ok := h.ids(w, r, "PUT")
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), businessID, actorID, &req)
	if err != nil {
		h.respondError(w, "PUT", businessID, err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/settings - Settings updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReset DELETE /api/v1/businesses/{businessId}/settings
// Сбрасывает настройки к значениям по умолчанию.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	businessID, actorID, ok := h.ids(w, r, "DELETE")
	if !ok {
		return
	}

	result, err := h.service.Reset(r.Context(), businessID, actorID)
	if err != nil {
		h.respondError(w, "DELETE", businessID, err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/settings - Settings reset: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request, method string) (int64, int64, bool) {
	businessID, err := handlers.PathID(r, "businessId")
	if err != nil {
		h.logger.Warn("%s /businesses/{id}/settings - Invalid business ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return 0, 0, false
	}

	actorID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return 0, 0, false
	}

	return businessID, actorID, true
}

func (h *Handler) respondError(w http.ResponseWriter, method string, businessID int64, err error) {
	switch {
	case errors.Is(err, settings.ErrAccessDenied):
		h.logger.Warn("%s /businesses/{id}/settings - Access denied: business_id=%d", method, businessID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, settings.ErrBusinessNotFound):
		h.logger.Warn("%s /businesses/{id}/settings - Business not found: business_id=%d", method, businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s /businesses/{id}/settings - Invalid data: business_id=%d, error=%v", method, businessID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s /businesses/{id}/settings - Failed: business_id=%d, error=%v", method, businessID, err)
		handlers.RespondInternalError(w)
	}
}
