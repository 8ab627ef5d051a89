package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/simcheck-go-api/internal/config"
	"github.com/noah-isme/simcheck-go-api/internal/database"
	"github.com/noah-isme/simcheck-go-api/internal/handler"
	"github.com/noah-isme/simcheck-go-api/internal/middleware"
	"github.com/noah-isme/simcheck-go-api/internal/models"
	"github.com/noah-isme/simcheck-go-api/internal/plagiarism"
	"github.com/noah-isme/simcheck-go-api/internal/repository"
	"github.com/noah-isme/simcheck-go-api/internal/router"
	"github.com/noah-isme/simcheck-go-api/internal/service"
	"github.com/noah-isme/simcheck-go-api/pkg/extract"
	"github.com/noah-isme/simcheck-go-api/pkg/websearch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Assignment{},
		&models.Submission{},
		&models.PlagiarismReport{},
		&models.SimilarityRecord{},
		&models.WebMatchRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	extractor := extract.New(logger)
	resolver := service.NewCachedTextResolver(extractor, redisClient, cfg.ExtractCacheTTL, logger)

	var corroborator plagiarism.Corroborator
	if cfg.WebSearchEnabled() {
		provider, err := websearch.NewGoogleProvider(context.Background(), cfg.SearchAPIKey, cfg.SearchEngineID, logger)
		if err != nil {
			log.Fatalf("failed to create search provider: %v", err)
		}

		corroborator = plagiarism.NewWebCorroborator(
			provider,
			websearch.NewReadabilityFetcher(cfg.WebFetchTimeout),
			plagiarism.WebCorroboratorConfig{
				MaxSnippets:   cfg.WebMaxSnippets,
				SnippetTokens: cfg.WebSnippetTokens,
				QueryTimeout:  cfg.WebQueryTimeout,
				Budget:        cfg.WebBudget,
			},
			logger,
		)
	} else {
		logger.Warn().Msg("search credentials missing, web corroboration disabled")
	}

	checker := plagiarism.NewChecker(resolver, corroborator, cfg.WebMaxResults, logger)

	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, logger)
	checkService := service.NewCheckService(submissionRepo, assignmentRepo, reportRepo, checker, resolver, logger)

	assignmentHandler := handler.NewAssignmentHandler(assignmentService, validate, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, validate, logger)
	checkHandler := handler.NewCheckHandler(checkService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    32 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		CheckHandler:      checkHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
