package orders

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"resto-pos/internal/httpx"
	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// Handler handles HTTP requests for the order ledger.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes returns the router for /orders.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateOrder)
	r.Get("/", h.ListOrders)
	r.Get("/kitchen", h.KitchenQueue)
	r.Get("/{id}", h.GetOrder)
	r.Get("/{id}/history", h.GetOrderHistory)
	r.Patch("/{id}/status", h.UpdateOrderStatus)
	return r
}

// CreateOrder handles POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req models.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", requestID, "Failed to parse order request body", err, nil)
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req, requestID)
	if err != nil {
		h.logger.Error("order_creation_failed", requestID, "Failed to create order", err,
			map[string]interface{}{"type": req.Type})
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteResource(w, http.StatusCreated, "order", order)
}

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	httpx.WriteResource(w, http.StatusOK, "orders", list)
}

// KitchenQueue handles GET /orders/kitchen: pending work for the kitchen,
// oldest first.
func (h *Handler) KitchenQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.service.KitchenQueue(r.Context())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if queue == nil {
		queue = []models.Order{}
	}
	httpx.WriteResource(w, http.StatusOK, "orders", queue)
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, svcErr := h.service.Get(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}
	httpx.WriteResource(w, http.StatusOK, "order", order)
}

// GetOrderHistory handles GET /orders/{id}/history.
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	history, svcErr := h.service.StatusHistory(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}
	if history == nil {
		history = []models.OrderStatusHistory{}
	}
	httpx.WriteResource(w, http.StatusOK, "history", history)
}

// UpdateOrderStatus handles PATCH /orders/{id}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	order, svcErr := h.service.AdvanceStatus(r.Context(), id, req.Status, requestID)
	if svcErr != nil {
		h.logger.Error("status_update_failed", requestID, "Failed to update order status", svcErr,
			map[string]interface{}{"order_id": id.String(), "status": req.Status})
		httpx.WriteAppError(w, svcErr)
		return
	}

	httpx.WriteResource(w, http.StatusOK, "order", order)
}
