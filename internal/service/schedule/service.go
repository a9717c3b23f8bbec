package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BusinessBooking/internal/service/schedule/models"
)

// Service сервис недельных расписаний компаний и сотрудников
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetBusinessWeek возвращает расписание компании
func (s *Service) GetBusinessWeek(ctx context.Context, businessID int64) (*models.WeekResponse, error) {
	if err := s.ensureBusiness(ctx, "GetBusinessWeek", businessID); err != nil {
		return nil, err
	}
	return s.getWeek(ctx, "GetBusinessWeek", domain.OwnerBusiness, businessID)
}

// GetEmployeeWeek возвращает расписание сотрудника
func (s *Service) GetEmployeeWeek(ctx context.Context, employeeID int64) (*models.WeekResponse, error) {
	if _, err := s.loadEmployee(ctx, "GetEmployeeWeek", employeeID); err != nil {
		return nil, err
	}
	return s.getWeek(ctx, "GetEmployeeWeek", domain.OwnerEmployee, employeeID)
}

// ReplaceBusinessWeek заменяет расписание компании целиком.
// Менять расписание может только сама компания.
func (s *Service) ReplaceBusinessWeek(ctx context.Context, businessID, actorBusinessID int64, req *models.ReplaceWeekRequest) (*models.WeekResponse, error) {
	s.logger.Info("ReplaceBusinessWeek: business=%d, days=%d", businessID, len(req.Days))

	if businessID != actorBusinessID {
		s.logger.Warn("ReplaceBusinessWeek: business=%d may not edit schedule of business=%d", actorBusinessID, businessID)
		return nil, ErrAccessDenied
	}

	if err := s.ensureBusiness(ctx, "ReplaceBusinessWeek", businessID); err != nil {
		return nil, err
	}

	week, err := s.toWeek(domain.OwnerBusiness, businessID, req)
	if err != nil {
		s.logger.Warn("ReplaceBusinessWeek: business=%d: %v", businessID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.scheduleRepo.ReplaceWeek(ctx, week)
	})
	if err != nil {
		s.logger.Error("ReplaceBusinessWeek: failed to replace schedule of business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ReplaceBusinessWeek - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(week)
}

// ReplaceEmployeeWeek заменяет расписание сотрудника целиком.
// Каждый интервал сотрудника должен лежать внутри интервала компании в тот же день.
func (s *Service) ReplaceEmployeeWeek(ctx context.Context, employeeID, actorBusinessID int64, req *models.ReplaceWeekRequest) (*models.WeekResponse, error) {
	s.logger.Info("ReplaceEmployeeWeek: employee=%d, days=%d", employeeID, len(req.Days))

	employee, err := s.loadEmployee(ctx, "ReplaceEmployeeWeek", employeeID)
	if err != nil {
		return nil, err
	}

	if employee.BusinessID != actorBusinessID {
		s.logger.Warn("ReplaceEmployeeWeek: business=%d may not edit employee=%d of business=%d",
			actorBusinessID, employeeID, employee.BusinessID)
		return nil, ErrAccessDenied
	}

	week, err := s.toWeek(domain.OwnerEmployee, employeeID, req)
	if err != nil {
		s.logger.Warn("ReplaceEmployeeWeek: employee=%d: %v", employeeID, err)
		return nil, err
	}

	// Расписание компании читается в той же транзакции, что и запись
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		businessWeek, err := s.scheduleRepo.GetWeek(ctx, domain.OwnerBusiness, employee.BusinessID)
		if err != nil {
			return fmt.Errorf("%w: get business schedule: %v", ErrInternal, err)
		}

		if err := week.FitsInto(*businessWeek); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}

		if err := s.scheduleRepo.ReplaceWeek(ctx, week); err != nil {
			return fmt.Errorf("%w: replace schedule: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSchedule) {
			s.logger.Warn("ReplaceEmployeeWeek: employee=%d: %v", employeeID, err)
			return nil, err
		}
		s.logger.Error("ReplaceEmployeeWeek: employee=%d: %v", employeeID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ReplaceEmployeeWeek - transaction error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(week)
}

// Вспомогательные методы

func (s *Service) getWeek(ctx context.Context, op string, ownerType domain.ScheduleOwnerType, ownerID int64) (*models.WeekResponse, error) {
	week, err := s.scheduleRepo.GetWeek(ctx, ownerType, ownerID)
	if err != nil {
		s.logger.Error("%s: failed to get schedule of %s=%d: %v", op, ownerType, ownerID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	resp, err := models.FromDomainWeek(week)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - stored schedule: %v", ErrInternal, op, err)
	}
	return resp, nil
}

func (s *Service) toWeek(ownerType domain.ScheduleOwnerType, ownerID int64, req *models.ReplaceWeekRequest) (*domain.WeeklySchedule, error) {
	week, err := models.ToDomainWeek(ownerType, ownerID, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := week.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return week, nil
}

func (s *Service) ensureBusiness(ctx context.Context, op string, businessID int64) error {
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

func (s *Service) loadEmployee(ctx context.Context, op string, employeeID int64) (*domain.Employee, error) {
	employee, err := s.catalogRepo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			s.logger.Warn("%s: employee id=%d not found", op, employeeID)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("%s: failed to get employee id=%d: %v", op, employeeID, err)
		return nil, fmt.Errorf("%w: %s - catalog error: %v", ErrInternal, op, err)
	}
	return employee, nil
}
