package order

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/httpx"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
)

// Handler exposes the order lifecycle over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates an order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the order routes. The router is expected to run the
// auth middleware already.
func (h *Handler) Register(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.With(auth.RequireRole(models.RoleAdmin)).Get("/orders/{orderID}", h.Get)
	r.Put("/orders/{orderID}/status", h.UpdateStatus)
	r.Delete("/orders/{orderID}", h.Delete)
	r.With(auth.RequireRole(models.RoleAdmin)).Delete("/orders", h.ClearAll)
}

// Create handles POST /orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}

	view, err := h.service.Create(r.Context(), ident)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, view)
}

// List handles GET /orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	views, err := h.service.List(r.Context())
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

// Get handles GET /orders/{orderID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	orderID, err := pathID(r, "orderID")
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}

	view, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// UpdateStatus handles PUT /orders/{orderID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body", requestID)
		return
	}

	view, err := h.service.UpdateStatus(r.Context(), orderID, req.Status, ident)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /orders/{orderID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}

	if err := h.service.Delete(r.Context(), orderID, ident); err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll handles DELETE /orders.
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}

	if err := h.service.ClearAll(r.Context(), ident); err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidRequest, name)
	}
	return id, nil
}
