package httpx

import (
	"encoding/json"
	"net/http"

	"resto-pos/internal/models"
)

// WriteResource writes the uniform success envelope with the resource under
// its own key, e.g. {"success":true,"order":{...}}.
func WriteResource(w http.ResponseWriter, statusCode int, key string, resource interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		key:       resource,
	})
}

// WriteRaw writes a pre-serialized JSON payload, used when serving a cached
// response body.
func WriteRaw(w http.ResponseWriter, statusCode int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(payload)
}

// WriteError writes the uniform error envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// WriteAppError maps a service error onto the error envelope using the
// ValidationError/NotFound/Conflict/Internal taxonomy.
func WriteAppError(w http.ResponseWriter, err error) {
	status, message := models.ErrorStatus(err)
	WriteError(w, status, message)
}
