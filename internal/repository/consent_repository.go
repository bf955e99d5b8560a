package repository

import (
	"context"
	"fmt"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/storage"
)

// ConsentRepository stores one cookie preference document per visitor
type ConsentRepository interface {
	// Get reports false when the visitor has not made a choice yet
	Get(ctx context.Context, visitorID string) (domain.CookiePreferences, bool, error)
	Save(ctx context.Context, visitorID string, prefs domain.CookiePreferences) error
}

type consentRepository struct {
	kv   storage.Store
	keys storage.Keys
}

// NewConsentRepository creates a new instance of ConsentRepository
func NewConsentRepository(kv storage.Store, keys storage.Keys) ConsentRepository {
	return &consentRepository{kv: kv, keys: keys}
}

func (r *consentRepository) Get(ctx context.Context, visitorID string) (domain.CookiePreferences, bool, error) {
	var prefs domain.CookiePreferences
	found, err := storage.GetJSON(ctx, r.kv, r.keys.CookieConsent(visitorID), &prefs)
	if err != nil {
		return domain.CookiePreferences{}, false, fmt.Errorf("failed to load cookie consent: %w", err)
	}
	if !found {
		return domain.CookiePreferences{Necessary: true}, false, nil
	}
	prefs.Necessary = true
	return prefs, true, nil
}

func (r *consentRepository) Save(ctx context.Context, visitorID string, prefs domain.CookiePreferences) error {
	prefs.Necessary = true
	if err := storage.PutJSON(ctx, r.kv, r.keys.CookieConsent(visitorID), prefs); err != nil {
		return fmt.Errorf("failed to save cookie consent: %w", err)
	}
	return nil
}
