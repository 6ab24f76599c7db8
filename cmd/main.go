package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"frog-cafe/internal/config"
	"frog-cafe/internal/database"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/messaging"
	"frog-cafe/internal/server"
	"frog-cafe/internal/services/notifier"
	"frog-cafe/internal/services/order"
	"frog-cafe/internal/store/postgres"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Mode to run: server or notifier")
		port       = flag.Int("port", 0, "Override the HTTP port from the config")
		configPath = flag.String("config", "config.yaml", "Path to the config file")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintln(os.Stderr, "Usage: cafe --mode=<server|notifier> [--port=N] [--config=path]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	switch *mode {
	case "server":
		runServer(cfg)
	case "notifier":
		runNotifier(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", *mode)
		os.Exit(1)
	}
}

func runServer(cfg *config.Config) {
	log := logger.New("cafe-server")
	ctx := context.Background()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("startup_failed", "Failed to connect to database", "startup", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		log.Error("startup_failed", "Failed to run migrations", "startup", err, nil)
		os.Exit(1)
	}

	// Events are best-effort: the API stays up when RabbitMQ is down.
	var events order.EventPublisher
	mq, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq_unavailable", "Starting without order events", "startup", err, nil)
	} else {
		defer mq.Close()
		events = messaging.NewPublisher(mq, log)
	}

	srv := server.New(cfg, postgres.New(db), events, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server_failed", "HTTP server stopped", "shutdown", err, nil)
			os.Exit(1)
		}
	case sig := <-sigChan:
		log.Info("shutdown_started", fmt.Sprintf("Received signal %v, shutting down", sig), "shutdown", nil)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown_failed", "Graceful shutdown failed", "shutdown", err, nil)
			os.Exit(1)
		}
	}

	log.Info("shutdown_complete", "Server stopped", "shutdown", nil)
}

func runNotifier(cfg *config.Config) {
	log := logger.New("cafe-notifier")

	mq, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("startup_failed", "Failed to connect to RabbitMQ", "startup", err, nil)
		os.Exit(1)
	}
	defer mq.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := notifier.New(messaging.NewConsumer(mq, log), log)
	if err := svc.Run(ctx); err != nil {
		log.Error("notifier_failed", "Notifier stopped", "shutdown", err, nil)
		os.Exit(1)
	}

	log.Info("shutdown_complete", "Notifier stopped", "shutdown", nil)
}
