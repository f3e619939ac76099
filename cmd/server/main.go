package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketcalls/FinSights/internal/config"
	delivery "github.com/marketcalls/FinSights/internal/delivery/http"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/internal/service"
	"github.com/marketcalls/FinSights/pkg/logger"
	"github.com/marketcalls/FinSights/pkg/postgres"
	"github.com/marketcalls/FinSights/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the FinSights server",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting FinSights", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize repositories
	newsRepo := repository.NewNewsRepository(db.DB)
	scenarioRepo := repository.NewScenarioRepository(db.DB)
	jobRepo := repository.NewScheduleJobRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)
	sourceRepo := repository.NewNewsSourceRepository(db.DB)
	apiLogRepo := repository.NewApiLogRepository(db.DB)

	// Initialize the optional failure notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	perplexitySvc := service.NewPerplexityService(cfg, appLogger, settingRepo, sourceRepo, apiLogRepo)
	cacheSvc := service.NewNewsCacheService(newsRepo, appLogger, cfg.News.CacheSize)

	var enricher *service.ContentEnricher
	if cfg.News.EnrichContent {
		enricher = service.NewContentEnricher(appLogger)
	}

	fetcherSvc := service.NewNewsFetcherService(perplexitySvc, newsRepo, jobRepo, cacheSvc, enricher, appLogger)
	scenarioSvc := service.NewScenarioService(perplexitySvc, newsRepo, scenarioRepo, apiLogRepo, appLogger)
	schedulerSvc := service.NewSchedulerService(cfg, fetcherSvc, jobRepo, notifier, appLogger)

	// Warm the recent-news cache
	if err := cacheSvc.LoadFromDB(ctx); err != nil {
		appLogger.Error("Failed to warm news cache", logger.ErrorField(err))
	}

	// Start the scheduler
	if cfg.Scheduler.Enabled {
		if err := schedulerSvc.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
		}
		defer schedulerSvc.Stop()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	newsHandler := delivery.NewNewsHandler(fetcherSvc, cacheSvc, jobRepo, appLogger)
	newsGroup := apiV1.Group("/news")
	newsHandler.RegisterRoutes(newsGroup)

	scenarioHandler := delivery.NewScenarioHandler(scenarioSvc, appLogger)
	scenarioHandler.RegisterRoutes(newsGroup)

	settingsHandler := delivery.NewSettingsHandler(perplexitySvc, appLogger)
	settingsGroup := apiV1.Group("/settings")
	settingsHandler.RegisterRoutes(settingsGroup)

	healthHandler := delivery.NewHealthHandler(db.DB, schedulerSvc, cacheSvc)
	healthHandler.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "finsights"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing finsights CLI: %s\n", err)
		os.Exit(1)
	}
}
