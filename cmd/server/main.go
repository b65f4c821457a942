package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/article-review-portal/internal/api"
	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/repository"
	"github.com/article-review-portal/internal/service"
	"github.com/article-review-portal/internal/session"
	"github.com/article-review-portal/internal/status"
	"github.com/article-review-portal/internal/views"
	"github.com/article-review-portal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting article review portal...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format == "pretty")

	if os.Getenv("ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	normalizer, err := status.LoadNormalizer(cfg.Status.AliasesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Status.AliasesFile).Msg("Failed to load status aliases")
	}

	// Backend client. The portal starts even when the backend is down.
	client := apiclient.New(&cfg.Backend, log)
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.WaitReady(probeCtx, 3, 500*time.Millisecond); err != nil {
		log.Warn().Err(err).Str("backend", cfg.Backend.BaseURL).Msg("Backend not reachable yet")
	} else {
		log.Info().Str("backend", cfg.Backend.BaseURL).Msg("Backend reachable")
	}
	cancelProbe()

	// Session revocation store
	var store session.RevocationStore = session.NewMemoryStore()
	if cfg.Session.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := session.ConnectRedis(ctx, cfg.Session.RedisURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb)
		log.Info().Msg("Using Redis session revocation")
	}

	tmpl, err := views.Load(normalizer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	guard := session.NewGuard(&cfg.Session, store, log)
	repos := repository.New(client)
	services := service.NewServices(repos, normalizer, log)

	// Initialize router
	router := api.NewRouter(services, guard, tmpl, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
