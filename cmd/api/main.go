package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/cache"
	"github.com/hostelmess/mess-service/internal/adapters/handler"
	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/adapters/repository/memory"
	"github.com/hostelmess/mess-service/internal/adapters/repository/postgres"
	"github.com/hostelmess/mess-service/internal/config"
	"github.com/hostelmess/mess-service/internal/core/ports"
	"github.com/hostelmess/mess-service/internal/core/services"
)

func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := handler.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Registry:           prometheus.NewRegistry(),
		Version:            cfg.Version,
	}
	opts.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var store *ports.Store
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db.DB, "up"); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = postgres.NewStore(db)
		opts.DB = db
		log.Info("using postgres storage")
	default:
		store, _ = memory.NewStore()
		log.Warn("using in-memory storage, data is lost on restart")
	}

	var menuCache ports.MenuCache
	if cfg.RedisAddress != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			// cache and throttle fail open through their breakers
			log.Warn("redis unreachable at startup", zap.String("address", cfg.RedisAddress), zap.Error(err))
		} else {
			log.Info("connected to redis", zap.String("address", cfg.RedisAddress))
		}

		menuCache = cache.NewMenuCache(redisClient, cfg.MenuCacheTTL, log)
		opts.Throttle = middleware.NewLoginThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow, cfg.TrustedProxies, log)
		opts.Redis = redisClient
	}

	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	auth := services.NewAuthService(store.Admins, store.Students, tokens, log)

	svc := handler.Services{
		Auth:          auth,
		Authenticator: auth,
		Students:      services.NewStudentService(store.Students, log),
		Menus:         services.NewMenuService(store.Menus, menuCache, log),
		Groceries:     services.NewGroceryService(store.Groceries, store.Students, store.Menus),
		Suppliers:     services.NewSupplierService(store.Suppliers),
		Expenses:      services.NewExpenseService(store.Expenses),
		Payments:      services.NewPaymentService(store.Payments, store.Students, log),
		Feedback:      services.NewFeedbackService(store.Feedback),
		Ratings:       services.NewRatingService(store.Ratings),
		Complaints:    services.NewComplaintService(store.Complaints, log),
		Notifications: services.NewNotificationService(store.Notifications, store.Students, log),
		AdminInbox:    services.NewAdminInboxService(store.AdminNotifications),
		Dashboard:     services.NewDashboardService(store),
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(svc, opts, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
