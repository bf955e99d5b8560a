package transport

import (
	"net/http"

	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// SendMessageRequest is a free-text message to an order's customer
type SendMessageRequest struct {
	Channel service.MessageChannel `json:"channel" validate:"required,oneof=email sms"`
	Text    string                 `json:"text" validate:"required,max=1000"`
}

// NotificationResponse reports the last notification scheduled for an order
type NotificationResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// OrderHandler serves order history and the admin order workflow
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers the shopper order history routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{orderID}", h.Get)
	})
}

// RegisterAdminRoutes registers the order workflow routes under the admin router
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.Filter)
		r.Get("/{orderID}", h.Get)
		r.Patch("/{orderID}/status", h.UpdateStatus)
		r.Post("/{orderID}/messages", h.SendMessage)
		r.Get("/{orderID}/notification", h.Notification)
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Filter handles GET /api/admin/orders?status=&search=&range=
func (h *OrderHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.OrderFilter{
		Status: domain.OrderStatus(q.Get("status")),
		Search: q.Get("search"),
		Range:  domain.TimeRange(q.Get("range")),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Status != "" && !filter.Status.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		return
	}
	if filter.Range != "" && !filter.Range.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown time range")
		return
	}

	orders, err := h.orders.Filter(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update order status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// SendMessage queues the message and answers 202; delivery happens later
func (h *OrderHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	id := chi.URLParam(r, "orderID")
	if err := h.orders.SendMessage(r.Context(), id, req.Channel, req.Text); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to send message")
		return
	}
	middleware.RespondWithJSON(w, http.StatusAccepted, map[string]string{"orderId": id, "status": "queued"})
}

func (h *OrderHandler) Notification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	if _, err := h.orders.Get(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get order")
		return
	}

	status, ok := h.orders.NotificationStatus(id)
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "no notification scheduled for this order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, NotificationResponse{OrderID: id, Status: string(status)})
}
