package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/messaging"
	"github.com/hostelmess/mess-service/internal/adapters/outbox"
	"github.com/hostelmess/mess-service/internal/adapters/repository/postgres"
	"github.com/hostelmess/mess-service/internal/config"
)

func main() {
	cfg := config.LoadRelayConfig()

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.Named("relay")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer broker.Close()
	log.Info("connected to RabbitMQ", zap.String("queue", cfg.QueueName))

	worker := outbox.NewRelay(db.DB, cfg.DatabaseURL, broker, log)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !worker.IsHealthy() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		writeStatus(w, code, status)
	})
	healthMux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !worker.IsReady() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		writeStatus(w, code, status)
	})

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting health server", zap.String("port", cfg.HealthPort))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server error", zap.Error(err))
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting event processing worker")
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("worker failed, shutting down", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    status,
		"component": "outbox-relay",
	})
}
