package clients

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"resto-pos/internal/httpx"
	"resto-pos/internal/logger"
	"resto-pos/internal/models"
)

// Handler handles HTTP requests for the client directory.
type Handler struct {
	directory *Directory
	logger    *logger.Logger
}

// NewHandler creates a new client handler.
func NewHandler(directory *Directory, log *logger.Logger) *Handler {
	return &Handler{
		directory: directory,
		logger:    log,
	}
}

// Routes returns the router for /clients.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListClients)
	r.Get("/{id}", h.GetClient)
	r.Delete("/{id}", h.DeleteClient)
	return r
}

// ListClients handles GET /clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.List(r.Context())
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	if list == nil {
		list = []models.Client{}
	}
	httpx.WriteResource(w, http.StatusOK, "clients", list)
}

// clientDetail joins a client with its booking log for display.
type clientDetail struct {
	models.Client
	Bookings []models.Booking `json:"bookings"`
}

// GetClient handles GET /clients/{id}.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, svcErr := h.directory.Get(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}

	bookings, svcErr := h.directory.ListBookings(r.Context(), id)
	if svcErr != nil {
		httpx.WriteAppError(w, svcErr)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	httpx.WriteResource(w, http.StatusOK, "client", clientDetail{Client: *client, Bookings: bookings})
}

// DeleteClient handles DELETE /clients/{id}. Deleting a client does not
// cascade to its orders or tables.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	if err := h.directory.Delete(r.Context(), id, requestID); err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteResource(w, http.StatusOK, "deleted", true)
}
