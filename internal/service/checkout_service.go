package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"burns-farm-shop/internal/cart"
	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrUnknownAccommodation    = errors.New("unknown accommodation")
	ErrUnknownDeliverySlot     = errors.New("unknown delivery slot")
	ErrDeliveryDateUnavailable = errors.New("delivery date is not available")
)

// validate names failing fields after their json tags, matching request validation
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// CheckoutInput is the customer and delivery form submitted at checkout
type CheckoutInput struct {
	FirstName     string `json:"firstName" validate:"required,max=100"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,max=30"`
	Accommodation string `json:"accommodation" validate:"required"`
	DeliveryDate  string `json:"deliveryDate" validate:"required,datetime=2006-01-02"`
	DeliverySlot  string `json:"deliverySlot" validate:"required"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// BuildOrder turns a cart and checkout form into a pending order. The items are copied so the
// order is unaffected by later cart or catalog changes. Delivery availability is not checked here.
func BuildOrder(c cart.State, in CheckoutInput, id string, now time.Time) (domain.Order, error) {
	if len(c.Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	accommodationType := domain.AccommodationCabin
	if acc, ok := domain.FindAccommodation(in.Accommodation); ok {
		accommodationType = acc.Type
	}

	state := cart.Recompute(c)

	return domain.Order{
		ID: id,
		Customer: domain.Customer{
			FirstName:         in.FirstName,
			LastName:          in.LastName,
			Email:             in.Email,
			Phone:             in.Phone,
			Accommodation:     in.Accommodation,
			AccommodationType: accommodationType,
		},
		Items:        state.Items,
		Total:        state.Total,
		DeliveryDate: in.DeliveryDate,
		DeliverySlot: in.DeliverySlot,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		Notes:        strings.TrimSpace(in.Notes),
	}, nil
}

// CheckoutService defines the interface for placing orders
type CheckoutService interface {
	Checkout(ctx context.Context, cartID string, in CheckoutInput) (domain.Order, error)
}

type checkoutService struct {
	carts         *cart.Store
	orders        repository.OrderRepository
	planner       *DeliveryPlanner
	ids           *IDGenerator
	now           func() time.Time
	enforceCutoff bool
	logger        *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	carts *cart.Store,
	orders repository.OrderRepository,
	planner *DeliveryPlanner,
	ids *IDGenerator,
	now func() time.Time,
	enforceCutoff bool,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		carts:         carts,
		orders:        orders,
		planner:       planner,
		ids:           ids,
		now:           now,
		enforceCutoff: enforceCutoff,
		logger:        logger,
	}
}

// Checkout places an order for the cart's contents and empties the cart
func (s *checkoutService) Checkout(ctx context.Context, cartID string, in CheckoutInput) (domain.Order, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Order{}, err
	}
	if _, ok := domain.FindAccommodation(in.Accommodation); !ok {
		return domain.Order{}, ErrUnknownAccommodation
	}
	if !domain.ValidDeliverySlot(in.DeliverySlot) {
		return domain.Order{}, ErrUnknownDeliverySlot
	}
	if s.enforceCutoff && !s.planner.Available(in.DeliveryDate) {
		return domain.Order{}, ErrDeliveryDateUnavailable
	}

	current, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := BuildOrder(current, in, s.ids.Next(OrderIDPrefix), s.now())
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		// the order stands even when the cart could not be emptied
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("cart_id", cartID),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("delivery_date", order.DeliveryDate),
		zap.String("delivery_slot", order.DeliverySlot),
	)

	return order, nil
}
