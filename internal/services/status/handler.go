package status

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/httpx"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Handler lists the seeded status rows.
type Handler struct {
	store  store.Store
	logger *logger.Logger
}

// NewHandler creates a status handler.
func NewHandler(st store.Store, log *logger.Logger) *Handler {
	return &Handler{store: st, logger: log}
}

// Register mounts the status routes, admin-only.
func (h *Handler) Register(r chi.Router) {
	r.With(auth.RequireRole(models.RoleAdmin)).Get("/order_statuses", h.List)
}

// List handles GET /order_statuses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	statuses := []models.StatusRow{}
	err := h.store.ExecTx(r.Context(), func(tx store.Tx) error {
		var err error
		statuses, err = tx.ListStatuses(r.Context())
		return err
	})
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statuses)
}
