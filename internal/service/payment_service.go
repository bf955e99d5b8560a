package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/repository"

	"go.uber.org/zap"
)

var ErrInvalidCard = errors.New("invalid card details")

// PaymentInput is the card form. Nothing here is stored.
type PaymentInput struct {
	OrderID    string `json:"orderId" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	Name       string `json:"name" validate:"required"`
}

// PaymentResult is returned when the simulated charge succeeds
type PaymentResult struct {
	OrderID     string       `json:"orderId"`
	Status      string       `json:"status"`
	Amount      string       `json:"amount"`
	CardLast4   string       `json:"cardLast4"`
	ProcessedAt time.Time    `json:"processedAt"`
	Order       domain.Order `json:"order"`
}

// PaymentService simulates card payment for an existing order
type PaymentService interface {
	Pay(ctx context.Context, in PaymentInput) (PaymentResult, error)
}

type paymentService struct {
	orders repository.OrderRepository
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(orders repository.OrderRepository, delay time.Duration, now func() time.Time, logger *zap.Logger) PaymentService {
	return &paymentService{orders: orders, delay: delay, now: now, logger: logger}
}

// Pay validates the card, waits out the processing delay and always succeeds.
// A cancelled request stops the wait and returns ctx's error.
func (s *paymentService) Pay(ctx context.Context, in PaymentInput) (PaymentResult, error) {
	number := FormatCardNumber(in.CardNumber)
	expiry := FormatExpiry(in.Expiry)
	if !CardValid(number, expiry, in.CVV, in.Name) {
		return PaymentResult{}, ErrInvalidCard
	}

	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return PaymentResult{}, err
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return PaymentResult{}, ctx.Err()
	case <-timer.C:
	}

	last4 := number[len(number)-4:]
	s.logger.Info("Payment processed",
		zap.String("order_id", order.ID),
		zap.String("card", "**** **** **** "+last4),
		zap.String("amount", order.Total.StringFixed(2)),
	)

	return PaymentResult{
		OrderID:     order.ID,
		Status:      "succeeded",
		Amount:      order.Total.StringFixed(2),
		CardLast4:   last4,
		ProcessedAt: s.now(),
		Order:       order,
	}, nil
}

// FormatCardNumber keeps the first 16 digits in groups of four. Fewer than four digits are returned bare.
func FormatCardNumber(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) < 4 {
		return digits
	}
	if len(digits) > 16 {
		digits = digits[:16]
	}

	groups := make([]string, 0, 4)
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}

// FormatExpiry renders the digits of raw as MM/YY
func FormatExpiry(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) < 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

// CardValid applies the form checks to already formatted values
func CardValid(number, expiry, cvv, name string) bool {
	return len(number) >= 19 &&
		len(expiry) == 5 &&
		len(cvv) >= 3 &&
		strings.TrimSpace(name) != ""
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
