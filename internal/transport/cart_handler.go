package transport

import (
	"net/http"

	"burns-farm-shop/internal/cart"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// UpdateQuantityRequest sets the quantity of a cart line. Zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartResponse is a cart snapshot together with its id
type CartResponse struct {
	ID string `json:"id"`
	cart.State
}

// CartHandler exposes the cart reducer and checkout over HTTP
type CartHandler struct {
	carts    *cart.Store
	catalog  service.CatalogService
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cart.Store, catalog service.CatalogService, checkout service.CheckoutService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog, checkout: checkout, logger: logger}
}

// RegisterRoutes registers all cart routes. rateLimit wraps checkout and may be nil.
func (h *CartHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{cartID}", func(r chi.Router) {
			r.Use(h.requireCartID)

			r.Get("/", h.Get)
			r.Delete("/", h.Clear)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productID}", h.UpdateQuantity)
			r.Delete("/items/{productID}", h.RemoveItem)

			r.Group(func(r chi.Router) {
				if rateLimit != nil {
					r.Use(rateLimit)
				}
				r.Post("/checkout", h.Checkout)
			})
		})
	})
}

func (h *CartHandler) requireCartID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(chi.URLParam(r, "cartID")); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart id")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Create starts a new empty cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	state, err := h.carts.Clear(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create cart")
		return
	}

	h.logger.Debug("Cart created", zap.String("cart_id", id))
	middleware.RespondWithJSON(w, http.StatusCreated, CartResponse{ID: id, State: state})
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	state, err := h.carts.Load(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{ID: id, State: state})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	state, err := h.carts.Clear(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to clear cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{ID: id, State: state})
}

// AddItem adds one unit of an active product, bounded by its stock
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalog.GetActive(r.Context(), req.ProductID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to add item")
		return
	}

	id := chi.URLParam(r, "cartID")
	state, err := h.carts.AddItem(r.Context(), id, product)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to add item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{ID: id, State: state})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	id := chi.URLParam(r, "cartID")
	state, err := h.carts.UpdateQuantity(r.Context(), id, chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{ID: id, State: state})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "cartID")
	state, err := h.carts.RemoveItem(r.Context(), id, chi.URLParam(r, "productID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{ID: id, State: state})
}

// Checkout turns the cart into a pending order
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), chi.URLParam(r, "cartID"), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to place order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}
