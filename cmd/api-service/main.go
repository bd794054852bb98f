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

	"bitewise-api/internal/api/config"
	delivery "bitewise-api/internal/api/delivery/http"
	_ "bitewise-api/internal/api/docs"
	"bitewise-api/internal/api/repository"
	"bitewise-api/internal/api/service"
	"bitewise-api/pkg/logger"
	"bitewise-api/pkg/postgres"
	"bitewise-api/pkg/redis"
	"bitewise-api/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
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

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize Gemini client
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}

	// Initialize repositories
	articleRepo := repository.NewArticleRepository(db.DB, appLogger)
	queryRepo := repository.NewQueryRepository(db.DB)
	dashboardRepo := repository.NewDashboardRepository(db.DB)
	topicsRepo := repository.NewTopicsArticlesRepository(db.DB)
	generationRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
	}
	crawlRepo, err := repository.NewNewsSearchRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize crawl service client", logger.ErrorField(err))
	}
	mediaRepo, err := repository.NewMediaRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media service client", logger.ErrorField(err))
	}
	scraperRepo := repository.NewScraperRepository(appLogger)
	topicFeedRepo := repository.NewTopicFeedRepository(appLogger)

	// Initialize Telegram notifier
	notifier := telegram.NewNoopNotifier()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	relevance := service.NewRelevanceFilter(generationRepo, appLogger)
	summarizeSvc := service.NewSummarizeService(articleRepo, generationRepo, scraperRepo, mediaRepo, appLogger)
	searchSvc := service.NewSearchService(queryRepo, articleRepo, crawlRepo, relevance, summarizeSvc, appLogger)
	dashboardSvc := service.NewDashboardService(cfg, dashboardRepo, crawlRepo, summarizeSvc, generationRepo, redisClient.Client, notifier, appLogger)
	podcastSvc := service.NewPodcastService(dashboardRepo, mediaRepo, redisClient.Client, appLogger)
	topicsSvc := service.NewTopicsService(cfg, topicsRepo, topicFeedRepo, appLogger)
	housekeepingSvc := service.NewHousekeepingService(cfg, queryRepo, topicsRepo, appLogger)

	// Start retention job
	if err := housekeepingSvc.Start(); err != nil {
		appLogger.Fatal("Failed to start housekeeping", logger.ErrorField(err))
	}
	defer housekeepingSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	searchHandler := delivery.NewSearchHandler(searchSvc, appLogger)
	searchHandler.RegisterRoutes(apiV1)

	summarizeHandler := delivery.NewSummarizeHandler(summarizeSvc, appLogger)
	summarizeHandler.RegisterRoutes(apiV1)

	dashboardHandler := delivery.NewDashboardHandler(dashboardSvc, podcastSvc, appLogger)
	dashboardHandler.RegisterRoutes(apiV1)

	topicsHandler := delivery.NewTopicsHandler(topicsSvc, appLogger)
	topicsHandler.RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)

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

// @title BiteWise API
// @version 1.0
// @description News aggregation and summarization backend.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
