package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/notionsync"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	documentID := flag.String("document-id", "", "Document whose canonical records should be synced (required)")
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
	holdingsDBID := flag.String("holdings-db-id", "", "Notion database ID for holdings")
	transactionsDBID := flag.String("transactions-db-id", "", "Notion database ID for transactions")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	_ = godotenv.Load()

	// Validate required flags
	if *documentID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *holdingsDBID == "" && *transactionsDBID == "" {
		log.Fatal().Msg("Error: at least one of --holdings-db-id or --transactions-db-id is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("document_id", *documentID).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	// Initialize BigQuery repository
	repo, err := bigquery.NewBigQueryStatementRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize BigQuery repository")
	}
	defer repo.Close()

	// Initialize Notion client
	notionClient := notionsync.NewNotionClient(*notionToken)

	if *holdingsDBID != "" {
		if err := notionsync.SyncHoldings(ctx, repo, notionClient, *holdingsDBID, *documentID, *dryRun); err != nil {
			log.Fatal().Err(err).Msg("Holdings sync failed")
		}
	}

	if *transactionsDBID != "" {
		if err := notionsync.SyncTransactions(ctx, repo, notionClient, *transactionsDBID, *documentID, *dryRun); err != nil {
			log.Fatal().Err(err).Msg("Transactions sync failed")
		}
	}

	fmt.Println("Sync completed successfully.")
}
