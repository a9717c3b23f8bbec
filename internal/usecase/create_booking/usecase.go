package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BusinessBooking/pkg/txmanager"
)

// UseCase use case для создания бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	notifier     Notifier
	metrics      Metrics
	policy       domain.BookingPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
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

// Execute создаёт все бронирования запроса или ни одного.
// Проверка слотов и вставка идут в одной SERIALIZABLE транзакции под advisory-блокировками
// сотрудников, поэтому два параллельных запроса не займут один и тот же слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, items=%d", req.UserID, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()

	// 2. Разрешаем услуги, компании и сотрудников до транзакции
	plans, err := uc.resolve(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	employeeIDs := make([]int64, 0, len(plans))
	for _, plan := range plans {
		employeeIDs = append(employeeIDs, plan.service.EmployeeID)
	}
	employeeIDs = uniqueSorted(employeeIDs)

	var created []*domain.Booking

	// 3. Проверка и вставка атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокировки в порядке возрастания ID, чтобы два батча не ждали друг друга по кругу
		for _, employeeID := range employeeIDs {
			if err := uc.bookingRepo.LockEmployee(txCtx, employeeID); err != nil {
				return fmt.Errorf("%w: failed to lock employee id=%d: %w", ErrInternal, employeeID, err)
			}
		}

		bookings := make([]*domain.Booking, 0, len(plans))
		for _, plan := range plans {
			// Окно расширено на буфер в обе стороны, поэтому бронирования через полночь тоже видны
			buffer := plan.business.Settings.BookingBufferTime
			existing, err := uc.bookingRepo.GetBlockingByEmployee(txCtx, plan.service.EmployeeID,
				plan.start.Add(-buffer), plan.end.Add(buffer))
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
			}

			// Позиции проверяются только против сохранённых бронирований, не друг против друга
			if err := checkSlot(plan, existing, now, uc.policy.MinLeadTime); err != nil {
				return err
			}

			bookings = append(bookings, &domain.Booking{
				UserID:     req.UserID,
				ServiceID:  plan.service.ID,
				EmployeeID: plan.service.EmployeeID,
				BusinessID: plan.service.BusinessID,
				StartTime:  plan.start,
				EndTime:    plan.end,
				Status:     plan.business.Settings.InitialBookingStatus(),
				FinalPrice: plan.service.Price,
				Note:       plan.note,
				CreatedAt:  now,
			})
		}

		result, err := uc.bookingRepo.CreateBatch(txCtx, bookings)
		if err != nil {
			return fmt.Errorf("%w: failed to create bookings: %w", ErrInternal, err)
		}

		created = result
		return nil
	})

	if err != nil {
		var slotErr *domain.SlotUnavailableError
		switch {
		case errors.As(err, &slotErr):
			uc.metrics.IncBookingConflicts()
			uc.logger.Warn("CreateBooking: user=%d: %v", req.UserID, slotErr)
			return nil, err
		case errors.Is(err, txmanager.ErrSerializationFailure):
			uc.metrics.IncBookingConflicts()
			uc.logger.Warn("CreateBooking: user=%d: serialization retries exhausted: %v", req.UserID, err)
			return nil, ErrConcurrentBooking
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: user=%d: %v", req.UserID, err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: user=%d: transaction failed: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	// 4. После коммита: метрики и уведомления. Ошибки уведомлений бронирование не откатывают.
	for _, b := range created {
		uc.metrics.IncBookingsCreated(string(b.Status), 1)
		if b.Status == domain.StatusPending {
			uc.notifier.NotifyBookingRequested(b)
		}
	}

	uc.logger.Info("CreateBooking: user=%d: created %d bookings", req.UserID, len(created))

	return &Response{Bookings: created}, nil
}

// resolve загружает услуги одним запросом и проверяет ссылки на компании и сотрудников
func (uc *UseCase) resolve(ctx context.Context, items []Item) ([]plannedBooking, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ServiceID)
	}
	ids = uniqueSorted(ids)

	services, err := uc.catalogRepo.GetServicesByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	if len(byID) != len(ids) {
		missing := make([]string, 0)
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, fmt.Sprint(id))
			}
		}
		uc.logger.Warn("CreateBooking: services not found: %s", strings.Join(missing, ","))
		return nil, fmt.Errorf("%w: ids %s", ErrServiceNotFound, strings.Join(missing, ","))
	}

	businesses := make(map[int64]*domain.Business)
	checkedEmployees := make(map[int64]struct{})

	plans := make([]plannedBooking, 0, len(items))
	for _, item := range items {
		service := byID[item.ServiceID]

		business, ok := businesses[service.BusinessID]
		if !ok {
			business, err = uc.catalogRepo.GetBusiness(ctx, service.BusinessID)
			if err != nil {
				return nil, uc.linkError(err, "business", service)
			}
			businesses[service.BusinessID] = business
		}

		if _, ok := checkedEmployees[service.EmployeeID]; !ok {
			employee, err := uc.catalogRepo.GetEmployee(ctx, service.EmployeeID)
			if err != nil {
				return nil, uc.linkError(err, "employee", service)
			}
			// Часы сотрудника вложены в часы его компании, поэтому компании должны совпадать
			if employee.BusinessID != service.BusinessID {
				uc.logger.Warn("CreateBooking: service id=%d: employee id=%d belongs to business id=%d, not %d",
					service.ID, employee.ID, employee.BusinessID, service.BusinessID)
				return nil, fmt.Errorf("%w: service %d", ErrBrokenServiceLink, service.ID)
			}
			checkedEmployees[service.EmployeeID] = struct{}{}
		}

		start := item.StartTime.UTC()
		plans = append(plans, plannedBooking{
			service:  service,
			business: business,
			start:    start,
			end:      start.Add(service.Duration),
			note:     item.Note,
		})
	}

	return plans, nil
}

func (uc *UseCase) linkError(err error, what string, service *domain.Service) error {
	if errors.Is(err, catalogRepo.ErrBusinessNotFound) || errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
		uc.logger.Warn("CreateBooking: service id=%d references missing %s", service.ID, what)
		return fmt.Errorf("%w: service %d", ErrBrokenServiceLink, service.ID)
	}
	uc.logger.Error("CreateBooking: failed to get %s for service id=%d: %v", what, service.ID, err)
	return fmt.Errorf("%w: failed to get %s: %v", ErrInternal, what, err)
}
