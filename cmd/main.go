package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	cancelBookingHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_business_bookings"
	getCompletedBookingHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_completed_booking"
	getScheduleHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_schedule"
	getSettingsHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_settings"
	getUserBookingsHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/get_user_bookings"
	replaceScheduleHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/replace_schedule"
	updateBookingStatusHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/update_booking_status"
	updateSettingsHandler "github.com/m04kA/SMC-BusinessBooking/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-BusinessBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BusinessBooking/internal/config"
	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-BusinessBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BusinessBooking/internal/integrations/notificationservice"
	"github.com/m04kA/SMC-BusinessBooking/internal/notifier"
	bookingsService "github.com/m04kA/SMC-BusinessBooking/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-BusinessBooking/internal/service/schedule"
	settingsService "github.com/m04kA/SMC-BusinessBooking/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-BusinessBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BusinessBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BusinessBooking/internal/worker/completion"
	"github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/logger"
	"github.com/m04kA/SMC-BusinessBooking/pkg/metrics"
	"github.com/m04kA/SMC-BusinessBooking/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BusinessBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики опциональны: с nil коллектором все вызовы ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopStatsCh := make(chan struct{})
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopStatsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Booking.SerializableRetries)

	// Уведомления
	notificationClient := notificationservice.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
	)
	dispatcher := notifier.NewDispatcher(notificationClient, metricsCollector, notifier.Config{
		Workers:    cfg.NotificationService.Workers,
		BufferSize: cfg.NotificationService.BufferSize,
		MaxRetries: cfg.NotificationService.MaxRetries,
	}, log)
	log.Info("Notification dispatcher initialized (url=%s, workers=%d, buffer=%d)",
		cfg.NotificationService.URL, cfg.NotificationService.Workers, cfg.NotificationService.BufferSize)

	policy := domain.DefaultBookingPolicy()
	policy.SlotStep = cfg.Booking.SlotStep()
	policy.MinLeadTime = cfg.Booking.MinLeadTime()

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, dispatcher, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, catalogRepository, txMgr, log)
	settingsSvc := settingsService.NewService(settingsRepository, catalogRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		txMgr,
		dispatcher,
		metricsCollector,
		policy,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		policy,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCompletedBooking := getCompletedBookingHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	replaceSchedule := replaceScheduleHandler.NewHandler(scheduleSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/businesses/{businessId}/completed-booking", getCompletedBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/schedule", getSchedule.HandleBusiness).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employeeId}/schedule", getSchedule.HandleEmployee).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// USER ROUTES (X-User-ID)
	// ============================================================

	api.Handle("/bookings", middleware.Auth(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)
	api.Handle("/bookings/{bookingId}", middleware.Auth(http.HandlerFunc(getBooking.Handle))).Methods(http.MethodGet)
	api.Handle("/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(cancelBooking.Handle))).Methods(http.MethodPatch)
	api.Handle("/users/{userId}/bookings", middleware.Auth(http.HandlerFunc(getUserBookings.Handle))).Methods(http.MethodGet)

	// ============================================================
	// BUSINESS ROUTES (X-Business-ID)
	// ============================================================

	business := func(h http.HandlerFunc) http.Handler {
		return middleware.BusinessAuth(h)
	}
	api.Handle("/businesses/{businessId}/bookings", business(getBusinessBookings.Handle)).Methods(http.MethodGet)
	api.Handle("/businesses/{businessId}/bookings/{bookingId}/status", business(updateBookingStatus.Handle)).Methods(http.MethodPatch)
	api.Handle("/businesses/{businessId}/schedule", business(replaceSchedule.HandleBusiness)).Methods(http.MethodPut)
	api.Handle("/employees/{employeeId}/schedule", business(replaceSchedule.HandleEmployee)).Methods(http.MethodPut)
	api.Handle("/businesses/{businessId}/settings", business(updateSettings.Handle)).Methods(http.MethodPut)
	api.Handle("/businesses/{businessId}/settings", business(updateSettings.HandleReset)).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	sweeper := completion.NewWorker(bookingSvc, metricsCollector, cfg.Booking.SweepInterval(), log)
	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
	}

	close(stopStatsCh)
	log.Info("Server stopped gracefully")
}
