package service

import (
	"context"
	"sync"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/storage"

	"github.com/shopspring/decimal"
)

var testKeys = storage.Keys{Namespace: "burns-farm-test"}

// fakeClock is a settable time source
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type sentSMS struct {
	Phone string
	Body  string
}

type sentEmail struct {
	To      notify.Recipient
	Subject string
	Body    string
}

// recordingNotifier keeps every message instead of sending it
type recordingNotifier struct {
	mu     sync.Mutex
	sms    []sentSMS
	emails []sentEmail
}

func (n *recordingNotifier) SendSMS(_ context.Context, phone, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, sentSMS{Phone: phone, Body: body})
	return nil
}

func (n *recordingNotifier) SendEmail(_ context.Context, to notify.Recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) SMS() []sentSMS {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentSMS(nil), n.sms...)
}

func (n *recordingNotifier) Emails() []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEmail(nil), n.emails...)
}

func testProduct(id, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: domain.CategoryGroceries,
		Stock:    stock,
		IsActive: true,
	}
}

func validCheckoutInput(date string) CheckoutInput {
	return CheckoutInput{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Phone:         "07700900000",
		Accommodation: "low-rigg-3",
		DeliveryDate:  date,
		DeliverySlot:  "8:30 AM - 8:45 AM",
		Notes:         "  leave by the door ",
	}
}
