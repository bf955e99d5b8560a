package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/repository"
	"burns-farm-shop/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTransitionPolicy(t *testing.T) {
	p, err := NewTransitionPolicy("")
	require.NoError(t, err)
	assert.IsType(t, UnrestrictedPolicy{}, p)

	p, err = NewTransitionPolicy(PolicyForwardOnly)
	require.NoError(t, err)
	assert.IsType(t, ForwardOnlyPolicy{}, p)

	_, err = NewTransitionPolicy("chaos")
	assert.Error(t, err)
}

func TestUnrestrictedPolicy_AllowsEverything(t *testing.T) {
	for _, from := range domain.OrderStatuses {
		for _, to := range domain.OrderStatuses {
			assert.NoError(t, UnrestrictedPolicy{}.Allow(from, to), "%s -> %s", from, to)
		}
	}
	assert.ErrorIs(t, UnrestrictedPolicy{}.Allow(domain.StatusPending, "shipped"), ErrInvalidTransition)
}

func TestForwardOnlyPolicy(t *testing.T) {
	allowed := []struct{ from, to domain.OrderStatus }{
		{domain.StatusPending, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusPreparing},
		{domain.StatusPreparing, domain.StatusReady},
		{domain.StatusReady, domain.StatusDelivered},
		{domain.StatusPending, domain.StatusCancelled},
		{domain.StatusReady, domain.StatusCancelled},
		{domain.StatusReady, domain.StatusReady},
	}
	for _, tt := range allowed {
		assert.NoError(t, ForwardOnlyPolicy{}.Allow(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	rejected := []struct{ from, to domain.OrderStatus }{
		{domain.StatusPending, domain.StatusDelivered},
		{domain.StatusReady, domain.StatusPending},
		{domain.StatusDelivered, domain.StatusCancelled},
		{domain.StatusCancelled, domain.StatusPending},
	}
	for _, tt := range rejected {
		assert.ErrorIs(t, ForwardOnlyPolicy{}.Allow(tt.from, tt.to), ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
	}
}

// Under forward-only no sequence of requests moves an order out of a terminal status
func TestProperty_ForwardOnlyTerminalStatesAreFinal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("terminal statuses never change", prop.ForAll(
		func(requests []int) bool {
			current := domain.StatusPending
			for _, r := range requests {
				next := domain.OrderStatuses[r]
				if (ForwardOnlyPolicy{}).Allow(current, next) != nil {
					continue
				}
				if current.Terminal() && next != current {
					return false
				}
				current = next
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(domain.OrderStatuses)-1)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

type orderFixture struct {
	repo       repository.OrderRepository
	notifier   *recordingNotifier
	dispatcher *notify.Dispatcher
	service    OrderService
}

func newOrderFixture(policy TransitionPolicy, now time.Time) orderFixture {
	repo := repository.NewOrderRepository(storage.NewMemoryStore(), testKeys)
	notifier := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(zap.NewNop())
	svc := NewOrderService(repo, policy, notifier, dispatcher,
		OrderTiming{NotificationDelay: 5 * time.Millisecond, MessageDelay: time.Millisecond},
		time.UTC, func() time.Time { return now }, zap.NewNop())

	return orderFixture{repo: repo, notifier: notifier, dispatcher: dispatcher, service: svc}
}

func seedOrder(t *testing.T, repo repository.OrderRepository, id string, createdAt time.Time, c domain.Customer) domain.Order {
	t.Helper()
	o := domain.Order{
		ID:       id,
		Customer: c,
		Items: []domain.CartItem{{
			Product:  testProduct("1", "2.00", 10),
			Quantity: 2,
		}},
		Total:        decimal.RequireFromString("4.00"),
		DeliveryDate: "2026-10-16",
		DeliverySlot: "9:00 AM - 9:15 AM",
		Status:       domain.StatusPending,
		CreatedAt:    createdAt,
	}
	require.NoError(t, repo.Append(context.Background(), o))
	return o
}

var customer = domain.Customer{
	FirstName:         "Grace",
	LastName:          "Hopper",
	Email:             "grace@example.com",
	Phone:             "07700900456",
	Accommodation:     "stickle-tarn",
	AccommodationType: domain.AccommodationCabin,
}

func TestOrderService_DeliveredSendsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(UnrestrictedPolicy{}, shopTime)
	seeded := seedOrder(t, f.repo, "ORDER-1", shopTime, customer)
	seedOrder(t, f.repo, "ORDER-2", shopTime, customer)

	updated, err := f.service.UpdateStatus(ctx, "ORDER-1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	// the status is persisted before the notification goes out
	stored, err := f.repo.FindByID(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, stored.Status)
	assert.Equal(t, seeded.Customer, stored.Customer)
	assert.True(t, seeded.Total.Equal(stored.Total))

	other, _ := f.repo.FindByID(ctx, "ORDER-2")
	assert.Equal(t, domain.StatusPending, other.Status)

	require.NoError(t, f.dispatcher.Wait(ctx))
	sms := f.notifier.SMS()
	require.Len(t, sms, 1)
	assert.Equal(t, customer.Phone, sms[0].Phone)
	assert.Contains(t, sms[0].Body, "Order #ORDER-1")

	emails := f.notifier.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "grace@example.com", emails[0].To.Email)
	assert.Equal(t, "Grace Hopper", emails[0].To.Name)

	status, ok := f.service.NotificationStatus("ORDER-1")
	require.True(t, ok)
	assert.Equal(t, notify.StatusSent, status)

	// already delivered: no second confirmation
	_, err = f.service.UpdateStatus(ctx, "ORDER-1", domain.StatusDelivered)
	require.NoError(t, err)
	require.NoError(t, f.dispatcher.Wait(ctx))
	assert.Len(t, f.notifier.SMS(), 1)
}

func TestOrderService_OtherStatusesAreSilent(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(UnrestrictedPolicy{}, shopTime)
	seedOrder(t, f.repo, "ORDER-1", shopTime, customer)

	for _, s := range []domain.OrderStatus{domain.StatusConfirmed, domain.StatusCancelled, domain.StatusPending} {
		_, err := f.service.UpdateStatus(ctx, "ORDER-1", s)
		require.NoError(t, err)
	}
	require.NoError(t, f.dispatcher.Wait(ctx))
	assert.Empty(t, f.notifier.SMS())
	assert.Empty(t, f.notifier.Emails())
}

func TestOrderService_ForwardOnlyRejectsSkips(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(ForwardOnlyPolicy{}, shopTime)
	seedOrder(t, f.repo, "ORDER-1", shopTime, customer)

	_, err := f.service.UpdateStatus(ctx, "ORDER-1", domain.StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, _ := f.repo.FindByID(ctx, "ORDER-1")
	assert.Equal(t, domain.StatusPending, stored.Status)

	_, err = f.service.UpdateStatus(ctx, "ORDER-404", domain.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderService_Filter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	f := newOrderFixture(UnrestrictedPolicy{}, now)

	bob := domain.Customer{FirstName: "Bob", LastName: "Fell", Email: "bob@walks.uk", Accommodation: "high-rigg-20"}
	seedOrder(t, f.repo, "ORDER-100", now.Add(-40*24*time.Hour), customer)
	seedOrder(t, f.repo, "ORDER-200", now.Add(-3*24*time.Hour), bob)
	seedOrder(t, f.repo, "ORDER-300", now.Add(-time.Hour), customer)
	_, err := f.service.UpdateStatus(ctx, "ORDER-300", domain.StatusReady)
	require.NoError(t, err)

	ids := func(orders []domain.Order) []string {
		out := []string{}
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	all, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ORDER-300", "ORDER-200", "ORDER-100"}, ids(all))

	tests := []struct {
		filter OrderFilter
		want   []string
	}{
		{OrderFilter{Status: domain.StatusReady}, []string{"ORDER-300"}},
		{OrderFilter{Search: "HOPPER"}, []string{"ORDER-300", "ORDER-100"}},
		{OrderFilter{Search: "walks.uk"}, []string{"ORDER-200"}},
		{OrderFilter{Search: "high-rigg"}, []string{"ORDER-200"}},
		{OrderFilter{Search: "order-1"}, []string{"ORDER-100"}},
		{OrderFilter{Range: domain.RangeToday}, []string{"ORDER-300"}},
		{OrderFilter{Range: domain.RangeWeek}, []string{"ORDER-300", "ORDER-200"}},
		{OrderFilter{Range: domain.RangeMonth, Status: domain.StatusPending}, []string{"ORDER-200"}},
		{OrderFilter{Search: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+v", tt.filter), func(t *testing.T) {
			got, err := f.service.Filter(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestOrderService_SendMessage(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(UnrestrictedPolicy{}, shopTime)
	seedOrder(t, f.repo, "ORDER-1", shopTime, customer)

	assert.ErrorIs(t, f.service.SendMessage(ctx, "ORDER-1", ChannelEmail, "   "), ErrEmptyMessage)
	assert.ErrorIs(t, f.service.SendMessage(ctx, "ORDER-1", "pigeon", "hi"), ErrUnknownChannel)
	assert.ErrorIs(t, f.service.SendMessage(ctx, "ORDER-9", ChannelSMS, "hi"), repository.ErrOrderNotFound)

	require.NoError(t, f.service.SendMessage(ctx, "ORDER-1", ChannelEmail, "Running ten minutes late"))
	require.NoError(t, f.service.SendMessage(ctx, "ORDER-1", ChannelSMS, "At the gate"))
	require.NoError(t, f.dispatcher.Wait(ctx))

	emails := f.notifier.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "Running ten minutes late", emails[0].Body)
	assert.Contains(t, emails[0].Subject, "ORDER-1")

	sms := f.notifier.SMS()
	require.Len(t, sms, 1)
	assert.Equal(t, customer.Phone, sms[0].Phone)
	assert.Equal(t, "At the gate", sms[0].Body)
}
