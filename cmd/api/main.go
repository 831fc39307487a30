package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"cvmatch/cv-matcher/internal/config"
	"cvmatch/cv-matcher/internal/handlers"
	"cvmatch/cv-matcher/internal/logger"
	"cvmatch/cv-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Model.APIKey == "" {
		zapLogger.Fatal("MODEL_API_KEY environment variable is required")
	}

	// Completion backend
	var completer services.ChatCompleter
	switch cfg.Model.Provider {
	case "gemini":
		completer, err = services.NewGeminiClient(context.Background(), cfg.Model.APIKey)
	default:
		completer, err = services.NewOpenAIClient(cfg.Model.Endpoint, cfg.Model.APIKey, cfg.Model.Primary)
	}
	if err != nil {
		zapLogger.Fatal("failed to initialize completion backend",
			zap.String("provider", cfg.Model.Provider),
			zap.Error(err),
		)
	}

	// Core services
	orchestrator := services.NewOrchestrator(completer, cfg.Model.Candidates, zapLogger)
	analyzer := services.NewAnalyzerService(orchestrator, zapLogger, cfg.Analyzer.HeuristicFallback)
	extractor := services.NewExtractorService()
	fetcher := services.NewProfileFetcher(services.FetcherConfig{
		Domain:  cfg.Profile.Domain,
		Timeout: cfg.Profile.FetchTimeout,
	}, zapLogger)

	analyzeHandler := handlers.NewAnalyzeHandler(extractor, fetcher, analyzer, zapLogger)

	app := fiber.New(fiber.Config{
		AppName:      "CV Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Post("/analyze", analyzeHandler.HandleAnalyze)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "cv-matcher-api",
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Matcher API is running",
			"version": "1.1.0",
			"endpoints": []string{
				"POST /analyze",
				"GET /health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server starting",
		zap.String("addr", addr),
		zap.String("model_provider", cfg.Model.Provider),
		zap.Strings("model_candidates", cfg.Model.Candidates),
	)

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
