// Package storage provides the whole-value key-value store that holds every shop collection.
// Each key maps to one JSON document that is always read in full and written in full.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a durable key-value store of raw JSON documents
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the document under key into v. It reports false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON overwrites the document under key with v
func PutJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}

// Keys builds the namespaced storage keys
type Keys struct {
	Namespace string
}

func (k Keys) Orders() string      { return k.Namespace + "-orders" }
func (k Keys) Products() string    { return k.Namespace + "-products" }
func (k Keys) Users() string       { return k.Namespace + "-users" }
func (k Keys) Invitations() string { return k.Namespace + "-invitations" }

func (k Keys) Cart(cartID string) string {
	return k.Namespace + "-cart:" + cartID
}

func (k Keys) CookieConsent(visitorID string) string {
	return k.Namespace + "-cookie-consent:" + visitorID
}
