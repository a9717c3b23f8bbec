package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-BusinessBooking/internal/domain"
	"github.com/m04kA/SMC-BusinessBooking/internal/integrations/notificationservice"
)

// Config параметры пула отправки
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.BufferSize <= 0 {
		c.BufferSize = c.Workers * 16
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	return c
}

type job struct {
	notification notificationservice.Notification
	attempt      int
}

// Dispatcher асинхронно отправляет уведомления о бронированиях.
// Постановка в очередь не блокирует вызывающего: при переполненном буфере уведомление отбрасывается.
// Ошибки доставки только логируются и считаются в метриках.
type Dispatcher struct {
	sender  Sender
	metrics Metrics
	logger  Logger
	cfg     Config

	queue chan job
	wg    sync.WaitGroup
}

// NewDispatcher создает диспетчер уведомлений
func NewDispatcher(sender Sender, metrics Metrics, cfg Config, logger Logger) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		queue:   make(chan job, cfg.BufferSize),
	}
}

// NotifyBookingRequested уведомляет компанию о новой заявке
func (d *Dispatcher) NotifyBookingRequested(b *domain.Booking) {
	d.enqueue(newNotification(notificationservice.KindBookingRequested, notificationservice.RecipientBusiness, b.BusinessID, b))
}

// NotifyBookingConfirmed уведомляет пользователя о подтверждении
func (d *Dispatcher) NotifyBookingConfirmed(b *domain.Booking) {
	d.enqueue(newNotification(notificationservice.KindBookingConfirmed, notificationservice.RecipientUser, b.UserID, b))
}

// NotifyBookingRejected уведомляет пользователя об отклонении или отмене
func (d *Dispatcher) NotifyBookingRejected(b *domain.Booking) {
	d.enqueue(newNotification(notificationservice.KindBookingRejected, notificationservice.RecipientUser, b.UserID, b))
}

// Run запускает воркеры и блокируется до отмены контекста.
// Уведомления, оставшиеся в буфере при остановке, не отправляются.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("notifier: starting %d workers, buffer=%d", d.cfg.Workers, d.cfg.BufferSize)

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}

	<-ctx.Done()
	d.wg.Wait()

	if pending := len(d.queue); pending > 0 {
		d.logger.Warn("notifier: stopped with %d undelivered notifications", pending)
	}
	d.logger.Info("notifier: stopped")
	return nil
}

func (d *Dispatcher) enqueue(n notificationservice.Notification) {
	select {
	case d.queue <- job{notification: n}:
	default:
		d.logger.Error("notifier: queue is full, dropping %s for booking id=%d", n.Kind, n.BookingID)
		d.metrics.IncNotificationsFailed(string(n.Kind))
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	for {
		err := d.sender.Send(ctx, j.notification)
		if err == nil {
			return
		}

		if !notificationservice.IsRetryable(err) || j.attempt >= d.cfg.MaxRetries {
			d.logger.Error("notifier: failed to deliver %s for booking id=%d after %d attempts: %v",
				j.notification.Kind, j.notification.BookingID, j.attempt+1, err)
			d.metrics.IncNotificationsFailed(string(j.notification.Kind))
			return
		}

		j.attempt++
		d.logger.Warn("notifier: retry %d for %s booking id=%d: %v",
			j.attempt, j.notification.Kind, j.notification.BookingID, err)

		timer := time.NewTimer(d.cfg.RetryDelay * time.Duration(j.attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func newNotification(kind notificationservice.Kind, recipient notificationservice.Recipient, recipientID int64, b *domain.Booking) notificationservice.Notification {
	return notificationservice.Notification{
		Kind:        kind,
		Recipient:   recipient,
		RecipientID: recipientID,
		BookingID:   b.ID,
		ServiceID:   b.ServiceID,
		BusinessID:  b.BusinessID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      string(b.Status),
	}
}
