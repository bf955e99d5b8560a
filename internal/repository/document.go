// Package repository keeps each shop collection as a single JSON list in the key-value store.
// Every write reads the whole list, changes it in memory and writes the whole list back.
package repository

import (
	"context"
	"fmt"

	"burns-farm-shop/internal/storage"
)

// document is one collection stored under one key
type document[T any] struct {
	kv   storage.Store
	key  string
	name string
}

// load returns the stored list, or an empty list when nothing has been written yet
func (d document[T]) load(ctx context.Context) ([]T, error) {
	var items []T
	found, err := storage.GetJSON(ctx, d.kv, d.key, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", d.name, err)
	}
	if !found || items == nil {
		return []T{}, nil
	}
	return items, nil
}

func (d document[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := storage.PutJSON(ctx, d.kv, d.key, items); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.name, err)
	}
	return nil
}
