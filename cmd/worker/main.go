package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/config"
	infraBQ "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/jobs"
	"github.com/dvloznov/statement-normalizer/internal/jobs/inmemory"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize logger
	log := logger.New()

	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	infraBQ.Configure(cfg.ProjectID, cfg.Dataset)

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting worker service")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create job handler that processes extraction jobs
	handler := func(ctx context.Context, job jobs.Job) error {
		extractJob, ok := job.(*jobs.ExtractStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		ctx = logger.WithContext(ctx, log)

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("gcs_uri", extractJob.GCSURI).
			Msg("Processing extraction job")

		result, err := pipeline.IngestStatementFromGCS(ctx, extractJob.GCSURI, cfg.ExtractionSettings())
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", extractJob.JobID).
				Msg("Pipeline execution failed")
			return err
		}

		extractJob.DocumentID = result.DocumentID
		extractJob.ExtractionRunID = result.ExtractionRunID

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("document_id", result.DocumentID).
			Msg("Pipeline execution completed successfully")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	// Cancel context to stop workers
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	// Close the queue
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
