package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/pingpong-tournament/config"
	"github.com/Dosada05/pingpong-tournament/db"
	"github.com/Dosada05/pingpong-tournament/handlers"
	"github.com/Dosada05/pingpong-tournament/repositories"
	api "github.com/Dosada05/pingpong-tournament/routes"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("application exited")
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("exports_enabled", cfg.R2.Enabled()),
	)

	// Хранилище: Postgres или память
	var store repositories.Store
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		logger.Info("database connection established")

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(migrateCtx, dbConn)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to apply database schema: %w", err)
		}
		store = repositories.NewPostgresStore(dbConn)
	default:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = repositories.NewMemoryStore()
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация сервисов
	cache := services.NewCache(store)
	rng := services.NewTimeSeededRand()

	playerService := services.NewPlayerService(store, cache, logger)
	groupService := services.NewGroupService(store, cache, rng, logger)
	matchService := services.NewMatchService(store, cache, logger)
	scoreService := services.NewScoreService(store, cache, logger)
	standingsService := services.NewStandingsService(cache)
	playoffService := services.NewPlayoffService(store, cache, rng, logger)
	exportService := services.NewExportService(cache, uploader, cfg.TournamentName, logger)
	logger.Info("services initialized")

	openAPIHandler, err := handlers.OpenAPIHandler(cfg.TournamentName)
	if err != nil {
		return fmt.Errorf("failed to build OpenAPI document: %w", err)
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, logger, cfg.CORSAllowedOrigins, api.Handlers{
		Health:   handlers.NewHealthHandler(store, logger),
		Players:  handlers.NewPlayerHandler(playerService),
		Groups:   handlers.NewGroupHandler(groupService, standingsService),
		Matches:  handlers.NewMatchHandler(matchService, scoreService),
		Playoffs: handlers.NewPlayoffHandler(playoffService),
		Exports:  handlers.NewExportHandler(exportService),
		OpenAPI:  openAPIHandler,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
