package toadpool

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/httpx"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Handler exposes pool administration over HTTP. Claims and releases
// stay internal to the order lifecycle; the API only lists and grows
// the pool.
type Handler struct {
	store  store.Store
	logger *logger.Logger
}

// NewHandler creates a toad pool handler.
func NewHandler(st store.Store, log *logger.Logger) *Handler {
	return &Handler{store: st, logger: log}
}

// Register mounts the toad routes, admin-only.
func (h *Handler) Register(r chi.Router) {
	admin := r.With(auth.RequireRole(models.RoleAdmin))
	admin.Get("/toads", h.List)
	admin.Post("/toads", h.Create)
}

// List handles GET /toads.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	toads := []models.Toad{}
	err := h.store.ExecTx(r.Context(), func(tx store.Tx) error {
		var err error
		toads, err = tx.ListToads(r.Context())
		return err
	})
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	if toads == nil {
		toads = []models.Toad{}
	}
	httpx.WriteJSON(w, http.StatusOK, toads)
}

// Create handles POST /toads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	var req models.CreateToadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body", requestID)
		return
	}

	var toad models.Toad
	err := h.store.ExecTx(r.Context(), func(tx store.Tx) error {
		var err error
		toad, err = tx.InsertToad(r.Context(), req)
		return err
	})
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	h.logger.Info("toad_created", "Toad added to pool", requestID, map[string]any{
		"toad_id": toad.ID,
	})
	httpx.WriteJSON(w, http.StatusCreated, toad)
}
