package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/cashflow-service/internal/cache"
	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/handler"
	"github.com/Dan9191/cashflow-service/internal/integrations/cbr"
	"github.com/Dan9191/cashflow-service/internal/jobs"
	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/narrative"
	"github.com/Dan9191/cashflow-service/internal/ratelimit"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/scoring"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/Dan9191/cashflow-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	metrics.Init()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Scoring benchmarks
	benchmarks := scoring.DefaultBenchmarks()
	if cfg.BenchmarksFile != "" {
		benchmarks, err = scoring.LoadBenchmarks(cfg.BenchmarksFile)
		if err != nil {
			logger.Fatalf("Failed to load benchmarks: %v", err)
		}
		logger.Infof("Loaded benchmarks for %d industries from %s", len(benchmarks), cfg.BenchmarksFile)
	}

	// Narrative providers, local model first
	var narrator narrative.Narrator = narrative.Disabled{}
	if cfg.NarrativeEnabled {
		providers := []narrative.Provider{narrative.NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel)}
		if cfg.AnthropicAPIKey != "" {
			anthropicClient, err := narrative.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			if err != nil {
				logger.Fatalf("Failed to create Anthropic client: %v", err)
			}
			providers = append(providers, anthropicClient)
		}
		narrator = narrative.NewChain(logger, cfg.NarrativeTimeout, providers...)
	}

	responseCache, err := cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		logger.Fatalf("Failed to create cache: %v", err)
	}
	defer responseCache.Close()

	// Initialize layers
	repo := repository.NewRepository(db)
	cbrClient := cbr.NewCBRClient(cfg.CBRURL, logger)
	engine := forecast.NewEngine(cfg.Forecast.Params(), nil)
	svc := service.NewService(repo, logger, cfg, engine, scoring.NewEngine(benchmarks),
		service.WithNarrator(narrator),
		service.WithCache(responseCache),
		service.WithKeyRates(cbrClient),
		service.WithAlerts(email.NewSender(cfg, logger)),
	)
	limiter := ratelimit.NewRegistry(cfg.RateLimitRPS, cfg.RateLimitBurst)
	h := handler.NewHandler(svc, logger)

	scheduler := jobs.NewScheduler(limiter, responseCache, cbrClient, cfg.RateLimitIdle, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg.JWTSecret, limiter, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.NarrativeTimeout + 30*time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
