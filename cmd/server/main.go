package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/db"
	"admission-partner-portal/internal/handlers"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, conn); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	loc := cfg.DisplayLocation()
	svc := services.New(models.NewStore(conn), loc)

	// Seed admin user if none exists with the configured mobile
	created, err := svc.Identity.EnsureAdmin(ctx, services.AccountInput{
		Name:     cfg.AdminName,
		Mobile:   cfg.AdminMobile,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to seed admin user")
	} else if created {
		log.WithField("mobile", cfg.AdminMobile).Info("Created default admin user")
	}

	// Token revocation lives in Redis when configured so logouts survive
	// restarts and are shared between instances.
	var revocations middleware.Revocations
	if cfg.RedisURL != "" {
		redisRevocations, err := middleware.NewRedisRevocations(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisRevocations.Close()
		revocations = redisRevocations
	} else {
		log.Warn("REDIS_URL not set, token revocations are kept in memory")
	}
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL, revocations)

	handlers.SetConfig(cfg)
	if err := handlers.InitTemplates(); err != nil {
		log.WithError(err).Fatal("Failed to load templates")
	}

	workDir, _ := os.Getwd()
	staticDir := filepath.Join(workDir, "web", "static")
	router := handlers.NewRouter(cfg, svc, tokens, handlers.NewUploadStore(cfg.UploadDir), staticDir)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.RequestLogger(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.Infof("Server starting on http://localhost:%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server failed to start")
	}
	log.Info("Server stopped")
}
