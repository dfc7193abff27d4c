package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/config"
	"github.com/dvloznov/statement-normalizer/internal/gcsuploader"
	infraBQ "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(log)
	case "upload":
		runUpload(log)
	case "reextract":
		runReextract(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Normalizer CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest     Extract and archive a statement PDF from GCS")
	fmt.Println("  upload     Upload a PDF file to GCS")
	fmt.Println("  reextract  Re-run extraction for an existing document by ID")
	fmt.Println("  inspect    Inspect a document and its canonical records")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// loadConfig reads the config file, applies env overrides, and points the
// BigQuery ops at the configured project and dataset.
func loadConfig(log zerolog.Logger, path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	infraBQ.Configure(cfg.ProjectID, cfg.Dataset)
	return cfg
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the statement PDF")
	configPath := fs.String("config", "config.yaml", "Path to YAML config file")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}
	cfg := loadConfig(log, *configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("gcs_uri", *gcsURI).Msg("Starting ingestion")

	result, err := pipeline.IngestStatementFromGCS(ctx, *gcsURI, cfg.ExtractionSettings())
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingestion completed. document_id=%s extraction_run_id=%s\n",
		result.DocumentID, result.ExtractionRunID)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local PDF file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := gcsuploader.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runReextract(log zerolog.Logger) {
	fs := flag.NewFlagSet("reextract", flag.ExitOnError)
	documentID := fs.String("document-id", "", "Document ID to re-extract")
	configPath := fs.String("config", "config.yaml", "Path to YAML config file")
	fs.Parse(os.Args[2:])

	if *documentID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}
	cfg := loadConfig(log, *configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("document_id", *documentID).Msg("Starting re-extraction")

	doc := findDocument(ctx, log, *documentID)
	if doc.GCSURI == "" {
		log.Fatal().Msg("Document has no GCS URI")
	}

	log.Info().Str("gcs_uri", doc.GCSURI).Msg("Re-extracting document")

	result, err := pipeline.IngestStatementFromGCS(ctx, doc.GCSURI, cfg.ExtractionSettings())
	if err != nil {
		log.Fatal().Err(err).Msg("Re-extraction failed")
	}

	fmt.Printf("Re-extraction completed. extraction_run_id=%s\n", result.ExtractionRunID)
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	documentID := fs.String("document-id", "", "Document ID to inspect")
	fs.Parse(os.Args[2:])

	if *documentID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	doc := findDocument(ctx, log, *documentID)

	fmt.Println("\n=== Document Details ===")
	fmt.Printf("ID:       %s\n", doc.DocumentID)
	fmt.Printf("Type:     %s\n", doc.DocumentType)
	fmt.Printf("GCS URI:  %s\n", doc.GCSURI)
	fmt.Printf("Uploaded: %s\n", doc.UploadTS)
	fmt.Printf("Status:   %s\n", doc.ExtractionStatus)
	if doc.Issuer != "" {
		fmt.Printf("Issuer:   %s\n", doc.Issuer)
	}

	repo, err := infraBQ.NewBigQueryStatementRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	holdings, err := repo.ListHoldingsForDocument(ctx, *documentID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query holdings")
	}

	fmt.Printf("\n=== Holdings (%d) ===\n", len(holdings))
	for i, h := range holdings {
		fmt.Printf("\n%d. %s\n", i+1, nullStr(h.SecurityName, "(unnamed)"))
		if h.Quantity.Valid {
			fmt.Printf("   Quantity:     %g\n", h.Quantity.Float64)
		}
		if h.MarketValue.Valid {
			fmt.Printf("   Market value: %g %s\n", h.MarketValue.Float64, nullStr(h.Currency, ""))
		}
		if h.HoldingDate.Valid {
			fmt.Printf("   As of:        %s\n", h.HoldingDate.Date)
		}
	}

	transactions, err := repo.ListTransactionsForDocument(ctx, *documentID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query transactions")
	}

	fmt.Printf("\n=== Transactions (%d) ===\n", len(transactions))
	for i, txn := range transactions {
		fmt.Printf("\n%d. %s\n", i+1, nullStr(txn.Description, "(no description)"))
		if txn.TransactionDate.Valid {
			fmt.Printf("   Date:   %s\n", txn.TransactionDate.Date)
		}
		if txn.TransactionType.Valid {
			fmt.Printf("   Type:   %s\n", txn.TransactionType.StringVal)
		}
		if txn.NetAmount.Valid {
			fmt.Printf("   Amount: %g %s\n", txn.NetAmount.Float64, nullStr(txn.Currency, ""))
		}
	}
	fmt.Println()
}

func findDocument(ctx context.Context, log zerolog.Logger, documentID string) *infraBQ.DocumentRow {
	docs, err := infraBQ.ListAllDocuments(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list documents")
	}

	for _, d := range docs {
		if d.DocumentID == documentID {
			return d
		}
	}

	log.Fatal().Str("document_id", documentID).Msg("Document not found")
	return nil
}

func nullStr(s bigquery.NullString, fallback string) string {
	if s.Valid && s.StringVal != "" {
		return s.StringVal
	}
	return fallback
}
