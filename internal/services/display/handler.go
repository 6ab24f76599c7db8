package display

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/httpx"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
)

// Handler serves the TV board.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a display handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the TV routes for counter staff and admins.
func (h *Handler) Register(r chi.Router) {
	r.With(auth.RequireRole(models.RoleAdmin, models.RoleStaff)).Get("/tv/orders", h.Orders)
}

// Orders handles GET /tv/orders.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	board, err := h.service.ActiveOrders(r.Context())
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, board)
}
