package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/diary-service/internal/ai"
	"github.com/dom/diary-service/internal/api"
	"github.com/dom/diary-service/internal/auth"
	"github.com/dom/diary-service/internal/config"
	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/repository"
	"github.com/dom/diary-service/internal/repository/postgres"
	repoRedis "github.com/dom/diary-service/internal/repository/redis"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/websocket"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", logger.Fields{"error": err})
	}

	logger.Init(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Starting diary service", logger.Fields{"config": cfg.String()})

	// Initialize database
	dbLogLevel := gormlogger.Warn
	if cfg.IsProduction() {
		dbLogLevel = gormlogger.Error
	}
	db, err := postgres.NewConnection(cfg.DSN(), dbLogLevel)
	if err != nil {
		logger.Fatal("failed to connect to database", logger.Fields{"error": err})
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	revocations, purger, err := newRevocationStore(cfg, repos)
	if err != nil {
		logger.Fatal("failed to initialize revocation store", logger.Fields{"error": err})
	}

	// Without a key the AI endpoints answer 502
	var generator ai.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
		if err != nil {
			logger.Fatal("failed to create gemini client", logger.Fields{"error": err})
		}
		generator = client
	} else {
		logger.Warn("GEMINI_API_KEY is not set, summaries and emotion analysis are disabled")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	services, err := service.NewServices(repos, revocations, generator, hub, cfg)
	if err != nil {
		logger.Fatal("failed to initialize services", logger.Fields{"error": err})
	}

	cronService := service.NewCronService(cfg, services.Stats, purger)
	cronService.Start()

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.Fields{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", logger.Fields{"error": err})
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", logger.Fields{"error": err})
	}
	cronService.Stop()
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server stopped")
}

// newRevocationStore picks the backend named by REVOCATION_BACKEND. The
// returned purger is nil when the backend expires entries itself.
func newRevocationStore(cfg *config.Config, repos *repository.Repositories) (auth.RevocationStore, auth.RevocationPurger, error) {
	switch cfg.RevocationBackend {
	case config.RevocationBackendMemory:
		logger.Warn("revoked tokens are kept in memory and lost on restart")
		store := auth.NewMemoryRevocationStore()
		return store, store, nil
	case config.RevocationBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := repoRedis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return repoRedis.NewRevocationStore(client), nil, nil
	default:
		return repos.RevokedToken, repos.RevokedToken, nil
	}
}
