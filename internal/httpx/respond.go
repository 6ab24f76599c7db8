// Package httpx holds the JSON response helpers and the mapping from
// the service error taxonomy to transport status codes.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
)

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format.
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// MapError translates a service error into a transport response.
// Everything in the named taxonomy keeps its message so the caller can
// render a precise reason; anything else is internal and surfaced
// opaquely after logging.
func MapError(w http.ResponseWriter, log *logger.Logger, requestID string, err error) {
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), requestID)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error(), requestID)
	case errors.Is(err, models.ErrUnknownDish),
		errors.Is(err, models.ErrUnknownToad),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrOrderNotOpen),
		errors.Is(err, models.ErrOrderNotDelivered),
		errors.Is(err, models.ErrOutOfStock),
		errors.Is(err, models.ErrUnavailable),
		errors.Is(err, models.ErrToadAlreadyFree),
		errors.Is(err, models.ErrInvalidRequest):
		WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.Is(err, models.ErrConflict):
		WriteError(w, http.StatusConflict, err.Error(), requestID)
	default:
		log.Error("request_failed", "Unhandled service error", requestID, err, nil)
		WriteError(w, http.StatusInternalServerError, "internal server error", requestID)
	}
}

// RequestID pulls the request id installed by the router middleware.
func RequestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return logger.GenerateRequestID()
}
