package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"burns-farm-shop/internal/config"
	"burns-farm-shop/internal/database"
	"burns-farm-shop/internal/logger"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/server"
	"burns-farm-shop/internal/storage"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// in-flight requests include payments waiting out their processing delay
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close waits for queued notifications before closing storage
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

// openStorage connects the configured key-value backend. Redis is connected whenever it is
// reachable so the rate limiter can use it even when documents live in Postgres.
func openStorage(cfg *config.Config, log *zap.Logger) (server.Dependencies, error) {
	var deps server.Dependencies

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisAddr := net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)

	switch cfg.Storage.Driver {
	case "postgres":
		dbService, err := database.New(cfg.Database)
		if err != nil {
			return deps, err
		}
		log.Info("Database health check", zap.Any("health", dbService.Health()))

		if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
			dbService.Close()
			return deps, err
		}
		deps.Database = dbService
		deps.Store = storage.NewPostgresStore(dbService.DB())

		if cfg.RateLimit.Enabled {
			client, err := storage.NewRedisClient(ctx, redisAddr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				log.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
			} else {
				deps.Redis = client
			}
		}

	case "redis":
		client, err := storage.NewRedisClient(ctx, redisAddr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return deps, err
		}
		deps.Redis = client
		deps.Store = storage.NewRedisStore(client)

	case "memory":
		log.Warn("Using in-memory storage, data is lost on restart")
		deps.Store = storage.NewMemoryStore()

	default:
		return deps, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return deps, nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Burns Farm shop API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	if cfg.Invitation.Secret == "" {
		log.Fatal("INVITATION_SECRET must be set")
	}

	deps, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}

	if cfg.Notify.SendGridAPIKey != "" {
		deps.Notifier = notify.NewSendGridNotifier(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName, log)
		log.Info("Email delivery via SendGrid enabled")
	} else {
		deps.Notifier = notify.NewLogNotifier(log)
		log.Info("SENDGRID_API_KEY not set, notifications are logged only")
	}

	srv, err := server.NewServer(cfg, log, deps)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
