package cart

import (
	"context"
	"fmt"
	"sync"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"

	"go.uber.org/zap"
)

// Store persists cart snapshots. Every mutation loads the whole cart, reduces it and
// overwrites the stored snapshot.
type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	keys   storage.Keys
	logger *zap.Logger
}

func NewStore(kv storage.Store, keys storage.Keys, logger *zap.Logger) *Store {
	return &Store{kv: kv, keys: keys, logger: logger}
}

// Load returns the saved cart, or an empty cart when none was saved.
// Totals are recomputed from the items rather than trusted from storage.
func (s *Store) Load(ctx context.Context, cartID string) (State, error) {
	var state State
	found, err := storage.GetJSON(ctx, s.kv, s.keys.Cart(cartID), &state)
	if err != nil {
		return State{}, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found {
		return Empty(), nil
	}
	return Recompute(state), nil
}

// Dispatch applies action to the saved cart and persists the result
func (s *Store) Dispatch(ctx context.Context, cartID string, action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Load(ctx, cartID)
	if err != nil {
		return State{}, err
	}

	next := Reduce(current, action)

	if err := storage.PutJSON(ctx, s.kv, s.keys.Cart(cartID), next); err != nil {
		return State{}, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug("Cart updated",
		zap.String("cart_id", cartID),
		zap.String("action", fmt.Sprintf("%T", action)),
		zap.Int("item_count", next.ItemCount),
		zap.String("total", next.Total.StringFixed(2)),
	)

	return next, nil
}

func (s *Store) AddItem(ctx context.Context, cartID string, product domain.Product) (State, error) {
	return s.Dispatch(ctx, cartID, AddItem{Product: product})
}

func (s *Store) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (State, error) {
	return s.Dispatch(ctx, cartID, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) RemoveItem(ctx context.Context, cartID, productID string) (State, error) {
	return s.Dispatch(ctx, cartID, RemoveItem{ProductID: productID})
}

func (s *Store) Clear(ctx context.Context, cartID string) (State, error) {
	return s.Dispatch(ctx, cartID, ClearCart{})
}
