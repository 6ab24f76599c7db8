// Package server assembles the HTTP API: router, middleware, and the
// per-service handlers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/config"
	"frog-cafe/internal/httpx"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/services/cart"
	"frog-cafe/internal/services/display"
	"frog-cafe/internal/services/menu"
	"frog-cafe/internal/services/order"
	"frog-cafe/internal/services/status"
	"frog-cafe/internal/services/toadpool"
	"frog-cafe/internal/store"
)

// Server is the HTTP front of the cafe backend.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	cfg        *config.Config
}

// New builds the router and wires every handler. events may be nil when
// the process runs without RabbitMQ.
func New(cfg *config.Config, st store.Store, events order.EventPublisher, log *logger.Logger) *Server {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authMw := auth.NewMiddleware(st, log)

	orderService := order.NewService(st, events, log)
	cartService := cart.NewService(st, log)
	menuService := menu.NewService(st, log)
	displayService := display.NewService(st, log)

	r.Route("/api", func(api chi.Router) {
		api.Use(authMw.Authenticate)

		order.NewHandler(orderService, log).Register(api)
		cart.NewHandler(cartService, log).Register(api)
		menu.NewHandler(menuService, log).Register(api)
		display.NewHandler(displayService, log).Register(api)
		toadpool.NewHandler(st, log).Register(api)
		status.NewHandler(st, log).Register(api)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: r,
		},
		logger: log,
		cfg:    cfg,
	}
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server_started", fmt.Sprintf("HTTP server listening on %s", s.httpServer.Addr), "startup", nil)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
