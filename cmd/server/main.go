package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gramroute/internal/config"
	"gramroute/internal/events"
	"gramroute/internal/infrastructure/database/postgres"
	"gramroute/internal/logger"
	"gramroute/internal/routes"
	"gramroute/internal/usecase/user"

	"go.uber.org/zap"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is not set, using the development placeholder secret. Never run like this in production.")
		cfg.JWT.Secret = config.DevelopmentJWTSecret
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	if cfg.Admin.Enabled() {
		bootstrap := user.NewService(postgres.NewUserRepository(db), postgres.NewReportRepository(db), cfg)
		if err := bootstrap.EnsureAdmin(startupCtx, cfg.Admin); err != nil {
			logger.Fatal("Failed to bootstrap admin user", zap.Error(err))
		}
	}

	publisher, err := events.NewPublisher(startupCtx, &cfg.MQTT)
	if err != nil {
		// Events are a side channel; the API keeps serving without them.
		logger.Error("Failed to connect event publisher, report events are disabled", zap.Error(err))
		publisher = events.NopPublisher{}
	}
	defer publisher.Close()

	router, stopRoutes := routes.SetupRoutes(cfg, db, publisher)
	defer stopRoutes()

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := net.JoinHostPort(host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down server gracefully", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
