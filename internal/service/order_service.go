package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrUnknownChannel = errors.New("unknown message channel")
)

// MessageChannel is how a customer message is delivered
type MessageChannel string

const (
	ChannelEmail MessageChannel = "email"
	ChannelSMS   MessageChannel = "sms"
)

// OrderFilter narrows the admin order list. Zero values match everything.
type OrderFilter struct {
	Status domain.OrderStatus
	Search string
	Range  domain.TimeRange
}

// OrderService defines the interface for order history and the admin status workflow
type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	Filter(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	SendMessage(ctx context.Context, id string, channel MessageChannel, text string) error
	NotificationStatus(id string) (notify.DeliveryStatus, bool)
}

// OrderTiming holds the delays applied to outgoing notifications
type OrderTiming struct {
	NotificationDelay time.Duration
	MessageDelay      time.Duration
}

type orderService struct {
	orders     repository.OrderRepository
	policy     TransitionPolicy
	notifier   notify.Notifier
	dispatcher *notify.Dispatcher
	timing     OrderTiming
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	policy TransitionPolicy,
	notifier notify.Notifier,
	dispatcher *notify.Dispatcher,
	timing OrderTiming,
	loc *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:     orders,
		policy:     policy,
		notifier:   notifier,
		dispatcher: dispatcher,
		timing:     timing,
		loc:        loc,
		now:        now,
		logger:     logger,
	}
}

// List returns every order, newest first
func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.Filter(ctx, OrderFilter{})
}

func (s *orderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) Filter(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	query := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if query != "" && !matchesSearch(o, query) {
			continue
		}
		if filter.Range != "" && !filter.Range.Contains(o.CreatedAt, now, s.loc) {
			continue
		}
		matched = append(matched, o)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func matchesSearch(o domain.Order, query string) bool {
	for _, field := range []string{
		o.ID,
		o.Customer.FirstName,
		o.Customer.LastName,
		o.Customer.Email,
		o.Customer.Accommodation,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// UpdateStatus persists the new status. Moving an order into delivered schedules the
// delivery confirmation; the status change does not wait for it.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	var previous domain.OrderStatus
	updated, err := s.orders.Update(ctx, id, func(o *domain.Order) error {
		if err := s.policy.Allow(o.Status, status); err != nil {
			return err
		}
		previous = o.Status
		o.Status = status
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	if status == domain.StatusDelivered && previous != domain.StatusDelivered {
		s.scheduleDeliveryConfirmation(updated)
	}

	return updated, nil
}

func (s *orderService) scheduleDeliveryConfirmation(order domain.Order) {
	s.dispatcher.Schedule(order.ID, s.timing.NotificationDelay, func(ctx context.Context) error {
		if err := s.notifier.SendSMS(ctx, order.Customer.Phone, notify.DeliveredSMS(order)); err != nil {
			return fmt.Errorf("failed to send delivery SMS: %w", err)
		}

		subject, body := notify.DeliveredEmail(order)
		if err := s.notifier.SendEmail(ctx, recipient(order.Customer), subject, body); err != nil {
			return fmt.Errorf("failed to send delivery email: %w", err)
		}
		return nil
	})
}

// SendMessage queues a free-text message to the order's customer
func (s *orderService) SendMessage(ctx context.Context, id string, channel MessageChannel, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if channel != ChannelEmail && channel != ChannelSMS {
		return ErrUnknownChannel
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.dispatcher.Schedule(order.ID, s.timing.MessageDelay, func(ctx context.Context) error {
		if channel == ChannelSMS {
			return s.notifier.SendSMS(ctx, order.Customer.Phone, text)
		}
		return s.notifier.SendEmail(ctx, recipient(order.Customer), notify.CustomerMessageSubject(order), text)
	})

	s.logger.Info("Customer message queued",
		zap.String("order_id", order.ID),
		zap.String("channel", string(channel)),
	)
	return nil
}

func (s *orderService) NotificationStatus(id string) (notify.DeliveryStatus, bool) {
	return s.dispatcher.Status(id)
}

func recipient(c domain.Customer) notify.Recipient {
	return notify.Recipient{
		Name:  strings.TrimSpace(c.FirstName + " " + c.LastName),
		Email: c.Email,
	}
}
