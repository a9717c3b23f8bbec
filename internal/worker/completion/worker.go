package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// BookingService переводит закончившиеся бронирования в complete
type BookingService interface {
	CompleteExpired(ctx context.Context) (int64, error)
}

// Metrics интерфейс метрик фоновой задачи
type Metrics interface {
	AddBookingsCompleted(n int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически завершает активные бронирования, время которых прошло.
// Ошибка одного прогона только логируется, следующий прогон выполняется по расписанию.
type Worker struct {
	service  BookingService
	metrics  Metrics
	logger   Logger
	interval time.Duration
	timeout  time.Duration
}

// NewWorker создает фоновую задачу завершения бронирований
func NewWorker(service BookingService, metrics Metrics, interval time.Duration, logger Logger) *Worker {
	return &Worker{
		service:  service,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		timeout:  interval,
	}
}

// Run планирует прогоны и блокируется до отмены контекста
func (w *Worker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("completion worker: invalid interval %s", w.interval)
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", w.interval), func() { w.Sweep(ctx) }); err != nil {
		return fmt.Errorf("completion worker: schedule sweep: %w", err)
	}

	w.logger.Info("completion worker: sweeping every %s", w.interval)
	scheduler.Start()

	<-ctx.Done()

	// дожидаемся текущего прогона
	<-scheduler.Stop().Done()
	w.logger.Info("completion worker: stopped")
	return nil
}

// Sweep выполняет один прогон
func (w *Worker) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	n, err := w.service.CompleteExpired(ctx)
	if err != nil {
		w.logger.Error("completion worker: sweep failed: %v", err)
		return
	}

	if n > 0 {
		w.logger.Info("completion worker: completed %d bookings", n)
		w.metrics.AddBookingsCompleted(n)
	}
}
