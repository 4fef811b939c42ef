package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/learnx/internal/api"
	"github.com/timmy/learnx/internal/api/middleware"
	"github.com/timmy/learnx/internal/config"
	"github.com/timmy/learnx/internal/gateway"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/realtime"
	"github.com/timmy/learnx/internal/repository"
	"github.com/timmy/learnx/internal/service"
	"github.com/timmy/learnx/internal/storage"
)

func main() {
	// Initialize logger
	log := logger.NewDefault("learnx-api")
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	// Change feed and repositories
	hub := realtime.NewHub(cfg.Realtime.BufferSize)
	imageRepo := repository.NewImageRepository(db, hub)

	// Initialize storage (optional; supports R2, S3 and S3-compatible services)
	ctx := context.Background()
	var objects storage.ObjectStorage
	s3Storage, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	if s3Storage != nil {
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.WithError(err).Fatal("Failed to ensure storage bucket")
		}
		objects = s3Storage
		log.WithField("bucket", cfg.Storage.Bucket).Info("Generated images will be stored in object storage")
	}

	// Initialize services
	gatewayClient := gateway.NewClient(&gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	})
	functionService := service.NewFunctionService(gatewayClient, &service.FunctionConfig{
		TextModel:  cfg.Gateway.TextModel,
		ImageModel: cfg.Gateway.ImageModel,
	})
	galleryService := service.NewGalleryService(imageRepo, objects)

	// Setup router
	router := api.SetupRouter(&api.RouterConfig{
		Mode:       cfg.Server.Mode,
		ProjectKey: cfg.Backend.ProjectKey,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		DB:        db,
		Functions: functionService,
		Gallery:   galleryService,
		Hub:       hub,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Shutdown does not track hijacked websocket connections; closing the hub
	// ends their subscriptions.
	hub.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
