package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями и их статусами
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Пользователь видит только свои бронирования.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", req.UserID)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования компании.
// Доступно только самой компании.
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d", req.BusinessID)

	if req.BusinessID != req.ActorBusinessID {
		s.logger.Warn("GetBusinessBookings: business=%d may not list bookings of business=%d", req.ActorBusinessID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetBusinessBookings: invalid status=%s for business=%d", *req.Status, req.BusinessID)
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByBusinessID(ctx, req.BusinessID, domainStatus, req.Date)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// SetStatusByBusiness подтверждает или отклоняет бронирование от имени компании.
// Подтверждение проставляет ConfirmedAt и уведомляет пользователя, отклонение тоже уведомляет.
func (s *Service) SetStatusByBusiness(ctx context.Context, bookingID, businessID int64, status string) (*models.BookingResponse, error) {
	s.logger.Info("SetStatusByBusiness: booking id=%d, business=%d, status=%s", bookingID, businessID, status)

	booking, err := s.load(ctx, "SetStatusByBusiness", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BusinessID != businessID {
		s.logger.Warn("SetStatusByBusiness: booking id=%d does not belong to business=%d", bookingID, businessID)
		return nil, ErrAccessDenied
	}

	updated, err := s.transition(ctx, "SetStatusByBusiness", booking, domain.ActorBusiness, status)
	if err != nil {
		return nil, err
	}

	switch updated.Status {
	case domain.StatusActive:
		s.notifier.NotifyBookingConfirmed(updated)
	case domain.StatusCanceled:
		s.notifier.NotifyBookingRejected(updated)
	}

	return models.FromDomainBooking(updated), nil
}

// SetStatusByUser отмена бронирования пользователем. Единственный допустимый статус - canceled.
func (s *Service) SetStatusByUser(ctx context.Context, bookingID, userID int64, status string) (*models.BookingResponse, error) {
	s.logger.Info("SetStatusByUser: booking id=%d, user=%d, status=%s", bookingID, userID, status)

	booking, err := s.load(ctx, "SetStatusByUser", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		s.logger.Warn("SetStatusByUser: booking id=%d does not belong to user=%d", bookingID, userID)
		return nil, ErrAccessDenied
	}

	updated, err := s.transition(ctx, "SetStatusByUser", booking, domain.ActorUser, status)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyBookingRejected(updated)

	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование пользователя
func (s *Service) Cancel(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	return s.SetStatusByUser(ctx, bookingID, userID, string(domain.StatusCanceled))
}

// UserHasCompletedBooking есть ли у пользователя завершённое бронирование в компании
func (s *Service) UserHasCompletedBooking(ctx context.Context, userID, businessID int64) (*models.CompletedBookingResponse, error) {
	if userID <= 0 || businessID <= 0 {
		return nil, fmt.Errorf("%w: userID and businessID must be positive", ErrInvalidInput)
	}

	exists, err := s.bookingRepo.ExistsWithStatus(ctx, userID, businessID, domain.StatusComplete)
	if err != nil {
		s.logger.Error("UserHasCompletedBooking: repository error for user=%d, business=%d: %v", userID, businessID, err)
		return nil, fmt.Errorf("%w: UserHasCompletedBooking - repository error: %v", ErrInternal, err)
	}

	return &models.CompletedBookingResponse{
		UserID:       userID,
		BusinessID:   businessID,
		HasCompleted: exists,
	}, nil
}

// CompleteExpired переводит в complete все активные бронирования, которые уже закончились.
// Уведомления не отправляются.
func (s *Service) CompleteExpired(ctx context.Context) (int64, error) {
	n, err := s.bookingRepo.CompleteExpired(ctx, s.timeProvider.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteExpired - repository error: %v", ErrInternal, err)
	}

	return n, nil
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

// transition проверяет таблицу переходов и записывает новый статус.
// Запись условная: если статус успел измениться, переход отклоняется.
func (s *Service) transition(ctx context.Context, op string, booking *domain.Booking, actor domain.Actor, status string) (*domain.Booking, error) {
	to := domain.BookingStatus(status)
	if !to.Valid() || !domain.CanRequest(actor, to) {
		s.logger.Warn("%s: %s may not request status %q", op, actor, status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if !domain.CanTransition(booking.Status, actor, to) {
		s.logger.Warn("%s: booking id=%d: %s -> %s not allowed for %s", op, booking.ID, booking.Status, to, actor)
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, booking.Status, to)
	}

	var confirmedAt *time.Time
	if to == domain.StatusActive {
		now := s.timeProvider.Now().UTC()
		confirmedAt = &now
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, to, confirmedAt); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			s.logger.Warn("%s: booking id=%d changed status concurrently", op, booking.ID)
			return nil, fmt.Errorf("%w: booking changed concurrently", ErrTransitionNotAllowed)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	updated := *booking
	updated.Status = to
	if confirmedAt != nil {
		updated.ConfirmedAt = confirmedAt
	}
	updated.UpdatedAt = s.timeProvider.Now().UTC()

	s.logger.Info("%s: booking id=%d %s -> %s", op, booking.ID, booking.Status, to)
	return &updated, nil
}
