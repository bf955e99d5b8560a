package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the admin-controlled progress label of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in workflow order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further progress is expected from this status
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "order status", func(v string) bool { return OrderStatus(v).Valid() })
	if err != nil {
		return err
	}
	*s = OrderStatus(v)
	return nil
}

// CartItem is a product snapshot with a quantity
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price × quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer is captured once per order; there is no customer identity across orders
type Customer struct {
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Accommodation     string            `json:"accommodation"`
	AccommodationType AccommodationType `json:"accommodationType"`
}

// Order is the record of a completed checkout. Only Status changes after creation.
type Order struct {
	ID           string          `json:"id"`
	Customer     Customer        `json:"customer"`
	Items        []CartItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	DeliveryDate string          `json:"deliveryDate"`
	DeliverySlot string          `json:"deliverySlot"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	Notes        string          `json:"notes,omitempty"`
}

// CopyItems returns a deep copy of items so that the caller's slice can change freely
func CopyItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
