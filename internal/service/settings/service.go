package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-BusinessBooking/pkg/ptr"
)

// maxBookingBuffer верхняя граница буфера между бронированиями
const maxBookingBuffer = 24 * time.Hour

// Service сервис настроек бронирования компаний
type Service struct {
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// Get возвращает настройки компании.
// Если настройки не сохранены, возвращаются значения по умолчанию.
func (s *Service) Get(ctx context.Context, businessID int64) (*models.SettingsResponse, error) {
	if err := s.ensureBusiness(ctx, "Get", businessID); err != nil {
		return nil, err
	}

	settings, isDefault, err := s.current(ctx, "Get", businessID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(businessID, settings, isDefault), nil
}

// Update обновляет переданные поля настроек.
// Доступно только самой компании.
func (s *Service) Update(ctx context.Context, businessID, actorBusinessID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings of business=%d by business=%d", businessID, actorBusinessID)

	if businessID != actorBusinessID {
		s.logger.Warn("Update: business=%d may not edit settings of business=%d", actorBusinessID, businessID)
		return nil, ErrAccessDenied
	}

	if err := s.ensureBusiness(ctx, "Update", businessID); err != nil {
		return nil, err
	}

	settings, _, err := s.current(ctx, "Update", businessID)
	if err != nil {
		return nil, err
	}

	settings.AutoConfirmBookings = ptr.Deref(req.AutoConfirmBookings, settings.AutoConfirmBookings)
	if req.BookingBufferMinutes != nil {
		settings.BookingBufferTime = time.Duration(*req.BookingBufferMinutes) * time.Minute
	}

	if err := validateSettings(settings); err != nil {
		s.logger.Warn("Update: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	if err := s.settingsRepo.Upsert(ctx, businessID, settings); err != nil {
		s.logger.Error("Update: failed to save settings of business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: business=%d auto_confirm=%t buffer=%s", businessID,
		settings.AutoConfirmBookings, settings.BookingBufferTime)

	return models.FromDomainSettings(businessID, settings, false), nil
}

// Reset удаляет сохранённые настройки, после чего действуют значения по умолчанию
func (s *Service) Reset(ctx context.Context, businessID, actorBusinessID int64) (*models.SettingsResponse, error) {
	s.logger.Info("Reset: resetting settings of business=%d by business=%d", businessID, actorBusinessID)

	if businessID != actorBusinessID {
		s.logger.Warn("Reset: business=%d may not reset settings of business=%d", actorBusinessID, businessID)
		return nil, ErrAccessDenied
	}

	if err := s.ensureBusiness(ctx, "Reset", businessID); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Delete(ctx, businessID); err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Reset: failed to delete settings of business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(businessID, domain.DefaultBusinessSettings(), true), nil
}

// Вспомогательные методы

func (s *Service) current(ctx context.Context, op string, businessID int64) (domain.BusinessSettings, bool, error) {
	stored, err := s.settingsRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultBusinessSettings(), true, nil
		}
		s.logger.Error("%s: failed to get settings of business=%d: %v", op, businessID, err)
		return domain.BusinessSettings{}, false, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return *stored, false, nil
}

func (s *Service) ensureBusiness(ctx context.Context, op string, businessID int64) error {
	if businessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if _, err := s.catalogRepo.GetBusiness(ctx, businessID); err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return fmt.Errorf("%w: %s - catalog error: %v", ErrInternal, op, err)
	}
	return nil
}

func validateSettings(settings domain.BusinessSettings) error {
	if settings.BookingBufferTime < 0 || settings.BookingBufferTime > maxBookingBuffer {
		return fmt.Errorf("%w: booking buffer must be between 0 and %s", ErrInvalidInput, maxBookingBuffer)
	}
	if settings.BookingBufferTime%time.Minute != 0 {
		return fmt.Errorf("%w: booking buffer must be a whole number of minutes", ErrInvalidInput)
	}
	return nil
}
