package main

import (
	"coffeeshop_server/api"
	"coffeeshop_server/broker"
	"coffeeshop_server/config"
	"coffeeshop_server/database"
	"coffeeshop_server/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	logger := config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to run migrations", gecho.Field("error", err))
		}
	}

	// Order events are optional
	var publisher *broker.Publisher
	if cfg.Broker.URL != "" {
		publisher, err = broker.Connect(cfg.Broker, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, order events disabled", gecho.Field("error", err))
			publisher = nil
		}
	}

	sm := services.NewServiceManager(logger, cfg, db, publisher)
	if err := sm.UserService.EnsureAdmin(ctx); err != nil {
		logger.Error("Failed to bootstrap admin user", gecho.Field("error", err))
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(logger, cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", gecho.Field("error", err))
	}

	if err := sm.CacheService.Close(); err != nil {
		logger.Warn("Failed to close cache", gecho.Field("error", err))
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ publisher", gecho.Field("error", err))
		}
	}
	if err := db.Close(); err != nil {
		logger.Warn("Failed to close database", gecho.Field("error", err))
	}

	logger.Info("Server stopped")
}
