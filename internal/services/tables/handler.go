package tables

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"resto-pos/internal/httpx"
	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// Handler handles HTTP requests for tables.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new table handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Routes returns the router for /tables.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateTable)
	r.Get("/", h.ListTables)
	r.Get("/{id}", h.GetTable)
	r.Post("/{id}/reserve", h.ReserveTable)
	r.Post("/{id}/cancel-reservation", h.CancelReservation)
	return r
}

// CreateTable handles POST /tables.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	var req models.CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	table, err := h.service.Create(r.Context(), &req, requestID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	httpx.WriteResource(w, http.StatusCreated, "table", table)
}

// ListTables handles GET /tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if list == nil {
		list = []models.Table{}
	}
	httpx.WriteResource(w, http.StatusOK, "tables", list)
}

// GetTable handles GET /tables/{id}.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	table, svcErr := h.service.Get(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}
	httpx.WriteResource(w, http.StatusOK, "table", table)
}

// ReserveTable handles POST /tables/{id}/reserve.
func (h *Handler) ReserveTable(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	var req models.ReserveTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	table, svcErr := h.service.Reserve(r.Context(), id, &req, requestID)
	if svcErr != nil {
		h.logger.Error("reservation_failed", requestID, "Failed to reserve table", svcErr,
			map[string]interface{}{"table_id": id.String()})
		httpx.WriteAppError(w, svcErr)
		return
	}
	httpx.WriteResource(w, http.StatusOK, "table", table)
}

// CancelReservation handles POST /tables/{id}/cancel-reservation.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	table, svcErr := h.service.CancelReservation(r.Context(), id, requestID)
	if svcErr != nil {
		h.logger.Error("cancellation_failed", requestID, "Failed to cancel reservation", svcErr,
			map[string]interface{}{"table_id": id.String()})
		httpx.WriteAppError(w, svcErr)
		return
	}
	httpx.WriteResource(w, http.StatusOK, "table", table)
}
