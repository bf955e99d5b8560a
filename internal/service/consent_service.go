package service

import (
	"context"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/repository"

	"go.uber.org/zap"
)

// ConsentState is a visitor's cookie choice. Decided is false until a choice is saved.
type ConsentState struct {
	Preferences domain.CookiePreferences `json:"preferences"`
	Decided     bool                     `json:"decided"`
}

// ConsentService defines the interface for cookie consent
type ConsentService interface {
	Get(ctx context.Context, visitorID string) (ConsentState, error)
	Save(ctx context.Context, visitorID string, prefs domain.CookiePreferences) (ConsentState, error)
	AcceptAll(ctx context.Context, visitorID string) (ConsentState, error)
	DeclineAll(ctx context.Context, visitorID string) (ConsentState, error)
}

type consentService struct {
	consents repository.ConsentRepository
	logger   *zap.Logger
}

// NewConsentService creates a new instance of ConsentService
func NewConsentService(consents repository.ConsentRepository, logger *zap.Logger) ConsentService {
	return &consentService{consents: consents, logger: logger}
}

func (s *consentService) Get(ctx context.Context, visitorID string) (ConsentState, error) {
	prefs, decided, err := s.consents.Get(ctx, visitorID)
	if err != nil {
		return ConsentState{}, err
	}
	return ConsentState{Preferences: prefs, Decided: decided}, nil
}

// Save stores prefs. Necessary cookies are always switched on.
func (s *consentService) Save(ctx context.Context, visitorID string, prefs domain.CookiePreferences) (ConsentState, error) {
	prefs.Necessary = true
	if err := s.consents.Save(ctx, visitorID, prefs); err != nil {
		return ConsentState{}, err
	}

	s.logger.Debug("Cookie consent saved",
		zap.String("visitor_id", visitorID),
		zap.Bool("analytics", prefs.Analytics),
		zap.Bool("marketing", prefs.Marketing),
	)
	return ConsentState{Preferences: prefs, Decided: true}, nil
}

func (s *consentService) AcceptAll(ctx context.Context, visitorID string) (ConsentState, error) {
	return s.Save(ctx, visitorID, domain.CookiePreferences{Analytics: true, Marketing: true})
}

func (s *consentService) DeclineAll(ctx context.Context, visitorID string) (ConsentState, error) {
	return s.Save(ctx, visitorID, domain.CookiePreferences{})
}
