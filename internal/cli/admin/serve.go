package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/technova-labs/inductbot/internal/api/handlers"
	"github.com/technova-labs/inductbot/internal/config"
	"github.com/technova-labs/inductbot/internal/database"
	"github.com/technova-labs/inductbot/internal/jobs"
	"github.com/technova-labs/inductbot/internal/llm"
	"github.com/technova-labs/inductbot/internal/match"
	"github.com/technova-labs/inductbot/internal/repository"
	"github.com/technova-labs/inductbot/internal/server"
	"github.com/technova-labs/inductbot/internal/service"
	"github.com/technova-labs/inductbot/internal/storage"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the inductbot API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	categoryRepo := repository.NewCategoryRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	ingestJobRepo := repository.NewIngestJobRepository(pool)
	chatRepo := repository.NewChatRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	snapshot := service.NewSnapshotHolder(categoryRepo, documentRepo)
	if err := snapshot.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	matcher := match.NewMatcher(match.Config{
		ExactThreshold: cfg.ExactThreshold,
		FuzzyThreshold: cfg.FuzzyThreshold,
		TopChunks:      cfg.TopChunks,
		Fallback:       cfg.FallbackAnswer,
	})
	chunker := match.NewChunker(match.ChunkerConfig{
		TargetWords:  cfg.ChunkTargetWords,
		OverlapWords: cfg.ChunkOverlapWords,
	})

	var store service.ObjectStore
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		store = s3Client
		log.Printf("document archive enabled (bucket '%s')", cfg.S3Bucket)
	}

	var refiner service.AnswerRefiner
	if cfg.HasLLM() {
		refiner = llm.NewClient(llm.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		})
		log.Printf("answer refinement enabled (model '%s')", cfg.LLMModel)
	}

	ingestSvc := service.NewIngestService(documentRepo, chunker, snapshot)
	ingestProcessor := jobs.NewIngestWorker(ingestJobRepo, ingestSvc)
	ingestWorker := jobs.NewWorker(ingestProcessor, 5*time.Second)
	go ingestWorker.Start(ctx)
	log.Println("ingest worker started")

	chatSvc := service.NewChatService(chatRepo, snapshot, matcher, refiner)
	categorySvc := service.NewCategoryService(categoryRepo, snapshot)
	documentSvc := service.NewDocumentService(txRunner, documentRepo, store, snapshot)
	analyticsSvc := service.NewAnalyticsService(chatRepo)

	router := server.NewRouter(server.RouterConfig{
		AdminToken:       cfg.AdminToken,
		ChatHandler:      handlers.NewChatHandler(chatSvc),
		CategoryHandler:  handlers.NewCategoryHandler(categorySvc),
		DocumentHandler:  handlers.NewDocumentHandler(documentSvc),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ingestWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("database migrations applied")
	return nil
}
