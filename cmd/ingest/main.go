package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/config"
	infraBQ "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	gcsURI := flag.String("gcs-uri", "", "GCS URI of the statement PDF (e.g. gs://bucket/file.pdf)")
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	infraBQ.Configure(cfg.ProjectID, cfg.Dataset)

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("gcs_uri", *gcsURI).Msg("Starting ingestion")

	result, err := pipeline.IngestStatementFromGCS(ctx, *gcsURI, cfg.ExtractionSettings())
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingestion completed: document %s, run %s\n", result.DocumentID, result.ExtractionRunID)
}
