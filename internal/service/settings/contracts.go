package settings

import (
	"context"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSettings, error)
	Upsert(ctx context.Context, businessID int64, settings domain.BusinessSettings) error
	Delete(ctx context.Context, businessID int64) error
}

// CatalogRepository интерфейс чтения компаний
type CatalogRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
