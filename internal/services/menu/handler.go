package menu

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

// Handler exposes the menu catalog over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a menu handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the menu routes. Reads are open to any authenticated
// user; edits are admin-only.
func (h *Handler) Register(r chi.Router) {
	r.Get("/menu", h.List)
	r.Get("/menu/{dishID}", h.Get)
	r.With(auth.RequireRole(models.RoleAdmin)).Post("/menu", h.Create)
	r.With(auth.RequireRole(models.RoleAdmin)).Put("/menu/{dishID}", h.Update)
	r.With(auth.RequireRole(models.RoleAdmin)).Post("/menu/{dishID}/restock", h.Restock)
}

// List handles GET /menu.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	dishes, err := h.service.List(r.Context())
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dishes)
}

// Get handles GET /menu/{dishID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	id, err := dishIDParam(r)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	dish, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dish)
}

// Create handles POST /menu.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	var req models.CreateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body", requestID)
		return
	}
	dish, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dish)
}

// Update handles PUT /menu/{dishID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	id, err := dishIDParam(r)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	var dish models.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body", requestID)
		return
	}
	dish.ID = id
	updated, err := h.service.Update(r.Context(), dish)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// Restock handles POST /menu/{dishID}/restock?count=N.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestID(r)
	id, err := dishIDParam(r)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "count must be an integer", requestID)
			return
		}
	}
	dish, err := h.service.Restock(r.Context(), id, count)
	if err != nil {
		httpx.MapError(w, h.logger, requestID, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dish)
}

func dishIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "dishID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: dishID must be an integer", models.ErrInvalidRequest)
	}
	return id, nil
}
