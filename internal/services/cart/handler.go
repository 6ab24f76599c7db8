package cart

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

// Handler exposes cart operations over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a cart handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the cart routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cart/{orderID}", h.AddItems)
	r.Get("/cart/{orderID}", h.GetCart)
}

// AddItems handles POST /cart/{orderID}.
func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}
	orderID, err := orderIDParam(r)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}

	var req models.AddItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body", requestID)
		return
	}
	if len(req.MenuItems) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "menu_items must not be empty", requestID)
		return
	}

	view, err := h.service.AddItems(r.Context(), orderID, req.MenuItems, ident)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

// GetCart handles GET /cart/{orderID}.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required", requestID)
		return
	}
	orderID, err := orderIDParam(r)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}

	dishes, err := h.service.GetCart(r.Context(), orderID, ident)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dishes)
}

func orderIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: orderID must be an integer", models.ErrInvalidRequest)
	}
	return id, nil
}
