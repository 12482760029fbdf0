package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tennis-history/handlers"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/routes"
	"github.com/Dosada05/tennis-history/services"
)

const shutdownTimeout = 15 * time.Second

func serve(ctx context.Context, a *app) error {
	logger := a.logger

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresTournamentRepository(a.db)
	statsRepo := repositories.NewPostgresStatsRepository(a.db)
	h2hRepo := repositories.NewPostgresH2HRepository(a.db)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	playerService := services.NewPlayerService(a.playerRepo, a.countryRepo, logger)
	countryService := services.NewCountryService(a.countryRepo, a.playerRepo, statsRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo)
	statsService := services.NewStatsService(statsRepo, a.playerRepo, a.countryRepo, logger)
	h2hService := services.NewH2HService(h2hRepo, a.playerRepo, a.countryRepo, logger)
	eventService := services.NewEventService(a.eventRepo, a.playerRepo, a.countryRepo, logger)
	entryService := services.NewEntryService(a.db, a.entryRepo, a.eventRepo, logger)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Options{
		Logger:         logger,
		JWTSecret:      a.cfg.JWTSecretKey,
		AllowedOrigins: a.cfg.CORSOrigins,
		RateLimit:      a.cfg.RateLimit,
		RateWindow:     a.cfg.RateWindow,
	}, routes.Handlers{
		Player:     handlers.NewPlayerHandler(playerService),
		Stats:      handlers.NewStatsHandler(statsService),
		Country:    handlers.NewCountryHandler(countryService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		H2H:        handlers.NewH2HHandler(h2hService),
		Event:      handlers.NewEventHandler(eventService, entryService, a.pointsService()),
		Entry:      handlers.NewEntryHandler(entryService),
		Integrity:  handlers.NewIntegrityHandler(a.integrityService()),
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
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

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
