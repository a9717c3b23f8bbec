package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	policy       domain.BookingPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()
	date := startOfDay(req.Date)

	// 2. Дата в прошлом - ошибка, а не пустой список
	if err := validateDate(date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	// 3. Услуга и её связи
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	business, err := uc.catalogRepo.GetBusiness(ctx, service.BusinessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d references missing business id=%d", service.ID, service.BusinessID)
			return nil, ErrBrokenServiceLink
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", service.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	employee, err := uc.catalogRepo.GetEmployee(ctx, service.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d references missing employee id=%d", service.ID, service.EmployeeID)
			return nil, ErrBrokenServiceLink
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", service.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if employee.BusinessID != business.ID {
		uc.logger.Warn("GetAvailableSlots: service id=%d: employee id=%d belongs to business id=%d, not %d",
			service.ID, employee.ID, employee.BusinessID, business.ID)
		return nil, ErrBrokenServiceLink
	}

	response := &Response{ServiceID: service.ID, Date: date, Slots: []time.Time{}}

	// 4. Расписания на день недели. Нет расписания - выходной, пустой список.
	businessDay, open, err := uc.scheduleRepo.GetDaySchedule(ctx, domain.OwnerBusiness, business.ID, date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get business schedule: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Info("GetAvailableSlots: business id=%d is closed on %s", business.ID, date.Weekday())
		return response, nil
	}

	_, open, err = uc.scheduleRepo.GetDaySchedule(ctx, domain.OwnerEmployee, service.EmployeeID, date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get employee schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get employee schedule: %v", ErrInternal, err)
	}
	if !open {
		uc.logger.Info("GetAvailableSlots: employee id=%d does not work on %s", service.EmployeeID, date.Weekday())
		return response, nil
	}

	// 5. Занятость сотрудника на этот день, включая бронирования, переходящие через полночь
	buffer := business.Settings.BookingBufferTime
	existing, err := uc.bookingRepo.GetBlockingByEmployee(ctx, service.EmployeeID,
		date.Add(-buffer), date.Add(24*time.Hour+buffer))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Генерация по интервалам компании
	response.Slots = generateSlots(
		date,
		businessDay.Intervals,
		service.Duration,
		business.Settings.BookingBufferTime,
		existing,
		now,
		uc.policy,
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(response.Slots), service.ID, date.Format(domain.DateFormat))

	return response, nil
}
