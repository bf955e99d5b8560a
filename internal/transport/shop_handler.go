package transport

import (
	"net/http"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShopHandler serves the checkout helpers: delivery options, payment and cookie consent
type ShopHandler struct {
	planner  *service.DeliveryPlanner
	payments service.PaymentService
	consent  service.ConsentService
	logger   *zap.Logger
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(
	planner *service.DeliveryPlanner,
	payments service.PaymentService,
	consent service.ConsentService,
	logger *zap.Logger,
) *ShopHandler {
	return &ShopHandler{planner: planner, payments: payments, consent: consent, logger: logger}
}

// RegisterRoutes registers the shop routes. rateLimit wraps payments and may be nil.
func (h *ShopHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Get("/api/delivery/options", h.DeliveryOptions)

	r.Group(func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Post("/api/payments", h.Pay)
	})

	r.Route("/api/consent/{visitorID}", func(r chi.Router) {
		r.Get("/", h.GetConsent)
		r.Put("/", h.SaveConsent)
		r.Post("/accept-all", h.AcceptAll)
		r.Post("/decline-all", h.DeclineAll)
	})
}

func (h *ShopHandler) DeliveryOptions(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.planner.Options())
}

// Pay runs the simulated card payment. The request blocks for the configured processing delay.
func (h *ShopHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	result, err := h.payments.Pay(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "payment failed")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ShopHandler) GetConsent(w http.ResponseWriter, r *http.Request) {
	state, err := h.consent.Get(r.Context(), chi.URLParam(r, "visitorID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load cookie preferences")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

func (h *ShopHandler) SaveConsent(w http.ResponseWriter, r *http.Request) {
	var prefs domain.CookiePreferences
	if !decodeRequest(w, r, h.logger, &prefs) {
		return
	}

	state, err := h.consent.Save(r.Context(), chi.URLParam(r, "visitorID"), prefs)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save cookie preferences")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

func (h *ShopHandler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	state, err := h.consent.AcceptAll(r.Context(), chi.URLParam(r, "visitorID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save cookie preferences")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}

func (h *ShopHandler) DeclineAll(w http.ResponseWriter, r *http.Request) {
	state, err := h.consent.DeclineAll(r.Context(), chi.URLParam(r, "visitorID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save cookie preferences")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, state)
}
