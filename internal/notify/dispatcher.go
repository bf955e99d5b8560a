package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DeliveryStatus tracks a scheduled notification
type DeliveryStatus string

const (
	StatusSending DeliveryStatus = "sending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

const sendTimeout = 30 * time.Second

// Dispatcher runs notifications after a delay without blocking the caller.
// Failures are logged and recorded, never returned.
type Dispatcher struct {
	wg     sync.WaitGroup
	mu     sync.RWMutex
	status map[string]DeliveryStatus
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		status: make(map[string]DeliveryStatus),
		logger: logger,
	}
}

// Schedule runs send after delay. key identifies the subject of the notification (usually an order id);
// a newer schedule for the same key replaces the reported status.
func (d *Dispatcher) Schedule(key string, delay time.Duration, send func(ctx context.Context) error) {
	d.setStatus(key, StatusSending)
	d.wg.Add(1)

	time.AfterFunc(delay, func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			d.logger.Error("Notification failed",
				zap.String("key", key),
				zap.Error(err),
			)
			d.setStatus(key, StatusFailed)
			return
		}
		d.setStatus(key, StatusSent)
	})
}

// Status reports the last known state of the notification for key
func (d *Dispatcher) Status(key string) (DeliveryStatus, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.status[key]
	return s, ok
}

// Wait blocks until every scheduled notification has run or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) setStatus(key string, s DeliveryStatus) {
	d.mu.Lock()
	d.status[key] = s
	d.mu.Unlock()
}
