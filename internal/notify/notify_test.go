package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"burns-farm-shop/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func deliveredOrder() domain.Order {
	return domain.Order{
		ID: "ORDER-1760000000000",
		Customer: domain.Customer{
			FirstName:     "Sam",
			LastName:      "Hill",
			Email:         "sam@example.com",
			Phone:         "07700900123",
			Accommodation: "blea-tarn",
		},
		Items: []domain.CartItem{
			{Product: domain.Product{Name: "Fresh Milk", Price: decimal.RequireFromString("1.25")}, Quantity: 2},
			{Product: domain.Product{Name: "Lakeland Fudge", Price: decimal.RequireFromString("4.99")}, Quantity: 1},
		},
		Total:        decimal.RequireFromString("7.49"),
		DeliveryDate: "2026-10-16",
		DeliverySlot: "9:00 AM - 9:15 AM",
	}
}

func TestDeliveredSMS(t *testing.T) {
	assert.Equal(t,
		"Your Burns Farm Shop order has been delivered! Order #ORDER-1760000000000 delivered on 2026-10-16 at 9:00 AM - 9:15 AM. Total: £7.49. Thank you for choosing Burns Farm!",
		DeliveredSMS(deliveredOrder()),
	)
}

func TestDeliveredEmail(t *testing.T) {
	subject, body := DeliveredEmail(deliveredOrder())

	assert.Equal(t, "Your Burns Farm Shop Order Has Been Delivered!", subject)
	assert.Contains(t, body, "Dear Sam Hill,")
	assert.Contains(t, body, "delivered to blea-tarn on 2026-10-16 at 9:00 AM - 9:15 AM")
	assert.Contains(t, body, "- Fresh Milk x2 - £2.50")
	assert.Contains(t, body, "- Lakeland Fudge x1 - £4.99")
	assert.Contains(t, body, "Total: £7.49")
	assert.Contains(t, body, "The Burns Farm Team")
}

func TestInvitationEmail(t *testing.T) {
	inv := domain.UserInvitation{FirstName: "Kim", LastName: "Ng", Role: domain.RoleManager}
	subject, body := InvitationEmail(inv, "https://burnsfarmshop.com/invite/abc", 7*24*time.Hour)

	assert.Equal(t, "You're invited to manage Burns Farm Shop", subject)
	assert.Contains(t, body, "Dear Kim Ng,")
	assert.Contains(t, body, "team as a manager.")
	assert.Contains(t, body, "https://burnsfarmshop.com/invite/abc")
	assert.Contains(t, body, "expires in 7 days")
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))
	ctx := context.Background()

	require.NoError(t, n.SendSMS(ctx, "07700900123", "hello"))
	require.NoError(t, n.SendEmail(ctx, Recipient{Email: "sam@example.com"}, "Hi", "body"))

	assert.ErrorIs(t, n.SendSMS(ctx, "", "hello"), ErrMissingRecipient)
	assert.ErrorIs(t, n.SendEmail(ctx, Recipient{}, "Hi", "body"), ErrMissingRecipient)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "SMS sent", entries[0].Message)
	assert.Equal(t, "07700900123", entries[0].ContextMap()["to"])
	assert.Equal(t, "Email sent", entries[1].Message)
	assert.Equal(t, "Hi", entries[1].ContextMap()["subject"])
}

func TestSendGridNotifier_RequiresRecipient(t *testing.T) {
	n := NewSendGridNotifier("SG.test", "shop@burns-farm.co.uk", "Burns Farm Shop", zap.NewNop())
	assert.ErrorIs(t, n.SendEmail(context.Background(), Recipient{}, "Hi", "body"), ErrMissingRecipient)
	assert.NoError(t, n.SendSMS(context.Background(), "07700900123", "texts are logged"))
}

func TestDispatcher_RunsAfterDelay(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var calls atomic.Int32
	start := time.Now()
	d.Schedule("ORDER-1", 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	status, ok := d.Status("ORDER-1")
	require.True(t, ok)
	assert.Equal(t, StatusSending, status)

	require.NoError(t, d.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	status, _ = d.Status("ORDER-1")
	assert.Equal(t, StatusSent, status)
}

func TestDispatcher_RecordsFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := NewDispatcher(zap.New(core))

	d.Schedule("ORDER-2", 0, func(context.Context) error { return errors.New("smtp down") })
	require.NoError(t, d.Wait(context.Background()))

	status, _ := d.Status("ORDER-2")
	assert.Equal(t, StatusFailed, status)
	assert.Equal(t, 1, logs.FilterMessage("Notification failed").Len())

	_, ok := d.Status("ORDER-unknown")
	assert.False(t, ok)
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.Schedule("slow", time.Hour, func(context.Context) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}
