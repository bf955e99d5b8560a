package repository

import (
	"context"
	"errors"
	"sync"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order with this id already exists")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Append(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	// Update applies fn to the stored order and persists the result. If fn fails nothing is written.
	Update(ctx context.Context, id string, fn func(*domain.Order) error) (domain.Order, error)
}

type orderRepository struct {
	mu  sync.Mutex
	doc document[domain.Order]
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(kv storage.Store, keys storage.Keys) OrderRepository {
	return &orderRepository{doc: document[domain.Order]{kv: kv, key: keys.Orders(), name: "orders"}}
}

// Append pushes order onto the end of the stored list
func (r *orderRepository) Append(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.doc.load(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.ID == order.ID {
			return ErrOrderAlreadyExists
		}
	}

	order.Items = domain.CopyItems(order.Items)
	return r.doc.save(ctx, append(orders, order))
}

// List returns orders in the order they were placed
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.doc.load(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	orders, err := r.doc.load(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (r *orderRepository) Update(ctx context.Context, id string, fn func(*domain.Order) error) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.doc.load(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		updated := orders[i]
		updated.Items = domain.CopyItems(updated.Items)
		if err := fn(&updated); err != nil {
			return domain.Order{}, err
		}
		orders[i] = updated
		if err := r.doc.save(ctx, orders); err != nil {
			return domain.Order{}, err
		}
		return updated, nil
	}

	return domain.Order{}, ErrOrderNotFound
}
