package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/Patron/internal/api"
	"github.com/MikeSquared-Agency/Patron/internal/catalog"
	"github.com/MikeSquared-Agency/Patron/internal/config"
	"github.com/MikeSquared-Agency/Patron/internal/events"
	"github.com/MikeSquared-Agency/Patron/internal/scoring"
	"github.com/MikeSquared-Agency/Patron/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.Open(ctx, store.Driver(cfg.Database.Driver), cfg.Database.URL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database ready", "driver", cfg.Database.Driver)

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to events, running without", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to events")
		}
	}

	// Catalog (optional)
	var catalogClient catalog.Client
	if cfg.Catalog.URL != "" {
		catalogClient = catalog.NewHTTPClient(cfg.Catalog.URL)
	}

	// Scoring engine
	engine, err := scoring.NewEngine(scoring.Params{
		SimilarityThreshold: cfg.Scoring.SimilarityThreshold,
		PremiumBudget:       cfg.Scoring.PremiumBudget,
		LossAversion:        cfg.Scoring.LossAversion,
		Curvature:           cfg.Scoring.Curvature,
		SigmoidGain:         cfg.Scoring.SigmoidGain,
	}, logger)
	if err != nil {
		logger.Error("invalid scoring params", "error", err)
		os.Exit(1)
	}

	// API server
	router := api.NewRouter(db, eventsClient, catalogClient, engine, cfg.Scoring.CurvePoints, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
