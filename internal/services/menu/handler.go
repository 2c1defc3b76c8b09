package menu

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"resto-pos/internal/cache"
	"resto-pos/internal/httpx"
	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// cachePrefix is the route prefix menu responses are cached under. Every
// mutation invalidates it before responding.
const cachePrefix = "/menu"

// Handler handles HTTP requests for the menu.
type Handler struct {
	service *Service
	cache   *cache.Gateway
	logger  *logger.Logger
}

// NewHandler creates a new menu handler.
func NewHandler(service *Service, gateway *cache.Gateway, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		cache:   gateway,
		logger:  log,
	}
}

// Routes returns the router for /menu.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateItem)
	r.Get("/", h.ListItems)
	r.Get("/{id}", h.GetItem)
	r.Put("/{id}", h.UpdateItem)
	r.Delete("/{id}", h.DeleteItem)
	return r
}

// CreateItem handles POST /menu.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req models.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	item, err := h.service.Create(r.Context(), &req, requestID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	h.cache.InvalidatePrefix(r.Context(), cachePrefix, requestID)
	httpx.WriteResource(w, http.StatusCreated, "menuItem", item)
}

// ListItems handles GET /menu, serving from the cache when a fresh entry
// exists and filling it on a miss.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	if cached := h.cache.Get(r.Context(), cachePrefix, requestID); cached != "" {
		httpx.WriteRaw(w, http.StatusOK, []byte(cached))
		return
	}

	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if list == nil {
		list = []models.MenuItem{}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"success": true,
		"menu":    list,
	})
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cache.Set(r.Context(), cachePrefix, requestID, string(payload))
	httpx.WriteRaw(w, http.StatusOK, payload)
}

// GetItem handles GET /menu/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	item, svcErr := h.service.Get(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}
	httpx.WriteResource(w, http.StatusOK, "menuItem", item)
}

// UpdateItem handles PUT /menu/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req models.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	item, svcErr := h.service.Update(r.Context(), id, &req, requestID)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}

	h.cache.InvalidatePrefix(r.Context(), cachePrefix, requestID)
	httpx.WriteResource(w, http.StatusOK, "menuItem", item)
}

// DeleteItem handles DELETE /menu/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	if svcErr := h.service.Delete(r.Context(), id, requestID); svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}

	h.cache.InvalidatePrefix(r.Context(), cachePrefix, requestID)
	httpx.WriteResource(w, http.StatusOK, "deleted", true)
}
