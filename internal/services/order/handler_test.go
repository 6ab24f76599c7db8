package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store/memory"
)

// newTestRouter mounts the order routes behind a stub that injects the
// given identity, standing in for the Basic auth middleware.
func newTestRouter(st *memory.Store, ident auth.Identity) http.Handler {
	log := logger.New("order-handler-test")
	svc := NewService(st, nil, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), ident)))
		})
	})
	NewHandler(svc, log).Register(r)
	return r
}

func TestHandlerCreateOrder(t *testing.T) {
	st := memory.New()
	st.AddToad(models.Toad{})
	router := newTestRouter(st, auth.Identity{UserID: 1, Name: "kermit", Role: models.RoleCustomer})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var view models.OrderView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if view.Status != models.StatusCreated {
		t.Errorf("status = %q, want Created", view.Status)
	}
	if view.ToadID == nil {
		t.Error("toad_id missing from created order")
	}
	if len(view.Items) != 0 {
		t.Errorf("items = %d, want empty cart", len(view.Items))
	}
}

func TestHandlerGetOrderRequiresAdmin(t *testing.T) {
	st := memory.New()
	customerRouter := newTestRouter(st, auth.Identity{UserID: 1, Role: models.RoleCustomer})
	adminRouter := newTestRouter(st, auth.Identity{UserID: 2, Role: models.RoleAdmin})

	rec := httptest.NewRecorder()
	customerRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	customerRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("customer GET status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	adminRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("admin GET status = %d, want 200", rec.Code)
	}
}

func TestHandlerUpdateStatus(t *testing.T) {
	st := memory.New()
	router := newTestRouter(st, auth.Identity{UserID: 1, Role: models.RoleStaff})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
	}{
		{name: "valid transition", target: "/orders/1/status", body: `{"status":"Preparing"}`, wantCode: http.StatusOK},
		{name: "unknown status", target: "/orders/1/status", body: `{"status":"Burnt"}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", target: "/orders/1/status", body: `{"status":`, wantCode: http.StatusBadRequest},
		{name: "missing order", target: "/orders/99/status", body: `{"status":"Ready"}`, wantCode: http.StatusNotFound},
		{name: "non-numeric id", target: "/orders/abc/status", body: `{"status":"Ready"}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestHandlerDeleteOrder(t *testing.T) {
	st := memory.New()
	router := newTestRouter(st, auth.Identity{UserID: 1, Role: models.RoleCustomer})
	staffRouter := newTestRouter(st, auth.Identity{UserID: 2, Role: models.RoleStaff})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete before delivery status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	staffRouter.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/orders/1/status",
		strings.NewReader(`{"status":"Delivered"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("deliver status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}
