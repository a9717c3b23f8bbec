package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	Booking             BookingConfig             `toml:"booking"`
}

// ServerConfig HTTP сервер. Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// NotificationServiceConfig внешний сервис уведомлений и очередь отправки
type NotificationServiceConfig struct {
	URL        string `toml:"url"`
	Timeout    int    `toml:"timeout"` // секунды
	Workers    int    `toml:"workers"`
	BufferSize int    `toml:"buffer_size"`
	MaxRetries int    `toml:"max_retries"`
}

// BookingConfig политика бронирования
type BookingConfig struct {
	SlotStepMinutes     int `toml:"slot_step_minutes"`
	MinLeadTimeMinutes  int `toml:"min_lead_time_minutes"`
	SweepIntervalSec    int `toml:"sweep_interval"`
	SerializableRetries int `toml:"serializable_retries"`
}

func (c BookingConfig) SlotStep() time.Duration {
	return time.Duration(c.SlotStepMinutes) * time.Minute
}

func (c BookingConfig) MinLeadTime() time.Duration {
	return time.Duration(c.MinLeadTimeMinutes) * time.Minute
}

func (c BookingConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения, затем валидирует результат
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "business-booking",
		},
		NotificationService: NotificationServiceConfig{
			Timeout:    5,
			Workers:    2,
			BufferSize: 256,
			MaxRetries: 3,
		},
		Booking: BookingConfig{
			SlotStepMinutes:     15,
			MinLeadTimeMinutes:  15,
			SweepIntervalSec:    60,
			SerializableRetries: 3,
		},
	}
}

// applyEnv переопределяет секреты подключения к БД из окружения
func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("NOTIFICATION_SERVICE_URL"); v != "" {
		cfg.NotificationService.URL = v
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Metrics.Enabled && c.Metrics.Path == "":
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	case !validServiceURL(c.NotificationService.URL):
		return fmt.Errorf("%w: notification_service.url must be an absolute http(s) URL, got %q",
			ErrInvalidConfig, c.NotificationService.URL)
	case c.NotificationService.Timeout <= 0:
		return fmt.Errorf("%w: notification_service.timeout must be positive", ErrInvalidConfig)
	case c.NotificationService.MaxRetries < 0:
		return fmt.Errorf("%w: notification_service.max_retries must not be negative", ErrInvalidConfig)
	case c.NotificationService.Workers <= 0:
		return fmt.Errorf("%w: notification_service.workers must be positive", ErrInvalidConfig)
	case c.NotificationService.BufferSize <= 0:
		return fmt.Errorf("%w: notification_service.buffer_size must be positive", ErrInvalidConfig)
	case c.Booking.SlotStepMinutes <= 0:
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	case c.Booking.MinLeadTimeMinutes < 0:
		return fmt.Errorf("%w: booking.min_lead_time_minutes must not be negative", ErrInvalidConfig)
	case c.Booking.SweepIntervalSec <= 0:
		return fmt.Errorf("%w: booking.sweep_interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func validServiceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
