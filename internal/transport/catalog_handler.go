package transport

import (
	"net/http"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the shop front product list and the admin product editor
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the shopper product routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListActive)
		r.Get("/{productID}", h.GetActive)
	})
}

// RegisterAdminRoutes registers the product editor routes under the admin router
func (h *CatalogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Post("/", h.Create)
		r.Put("/{productID}", h.Update)
		r.Delete("/{productID}", h.Delete)
	})
}

// ListActive handles GET /api/products?category=&search=
func (h *CatalogHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	products, err := h.catalog.ListActive(r.Context(), service.ProductFilter{
		Category: category,
		Search:   r.URL.Query().Get("search"),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetActive(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalog.Update(r.Context(), chi.URLParam(r, "productID"), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
