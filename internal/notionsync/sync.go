package notionsync

import (
	"context"
	"fmt"

	infra "github.com/dvloznov/statement-normalizer/internal/infra/bigquery"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/jomei/notionapi"
)

// BatchSize defines the number of rows to process in a single batch.
const BatchSize = 100

// SyncHoldings mirrors a document's archived holdings into a Notion
// database. Stale pages (holdings no longer in the latest successful
// extraction run) are archived; missing holdings get new pages. The
// Holding ID title property keeps the sync idempotent.
func SyncHoldings(ctx context.Context, repo infra.StatementRepository, notionClient NotionService, notionDBID, documentID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("document_id", documentID).
		Bool("dry_run", dryRun).
		Msg("Starting holdings sync to Notion")

	holdings, err := repo.ListHoldingsForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to query holdings: %w", err)
	}

	validIDs := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		validIDs[h.HoldingID] = true
	}

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	existingIDs, deleted := pruneStalePages(ctx, notionClient, pages, validIDs, extractTitleID("Holding ID"), dryRun)

	var created, skipped int
	for i := 0; i < len(holdings); i += BatchSize {
		end := i + BatchSize
		if end > len(holdings) {
			end = len(holdings)
		}
		for _, h := range holdings[i:end] {
			if existingIDs[h.HoldingID] {
				skipped++
				continue
			}
			if dryRun {
				log.Info().Str("holding_id", h.HoldingID).Msg("[DRY RUN] Would create Notion page")
				created++
				continue
			}
			page, err := notionClient.CreatePage(ctx, notionDBID, HoldingToNotionProperties(h))
			if err != nil {
				log.Warn().
					Err(err).
					Str("holding_id", h.HoldingID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Info().
				Str("holding_id", h.HoldingID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("created", created).
		Int("deleted", deleted).
		Int("skipped", skipped).
		Int("total", len(holdings)).
		Msg("Holdings sync completed")

	return nil
}

// SyncTransactions mirrors a document's archived transactions into a
// Notion database, with the same stale-page handling as SyncHoldings.
func SyncTransactions(ctx context.Context, repo infra.StatementRepository, notionClient NotionService, notionDBID, documentID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("document_id", documentID).
		Bool("dry_run", dryRun).
		Msg("Starting transactions sync to Notion")

	transactions, err := repo.ListTransactionsForDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to query transactions: %w", err)
	}

	validIDs := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		validIDs[t.TransactionID] = true
	}

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	existingIDs, deleted := pruneStalePages(ctx, notionClient, pages, validIDs, extractTitleID("Transaction ID"), dryRun)

	var created, skipped int
	for i := 0; i < len(transactions); i += BatchSize {
		end := i + BatchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		for _, t := range transactions[i:end] {
			if existingIDs[t.TransactionID] {
				skipped++
				continue
			}
			if dryRun {
				log.Info().Str("transaction_id", t.TransactionID).Msg("[DRY RUN] Would create Notion page")
				created++
				continue
			}
			page, err := notionClient.CreatePage(ctx, notionDBID, TransactionToNotionProperties(t))
			if err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", t.TransactionID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Info().
				Str("transaction_id", t.TransactionID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("created", created).
		Int("deleted", deleted).
		Int("skipped", skipped).
		Int("total", len(transactions)).
		Msg("Transactions sync completed")

	return nil
}

// pruneStalePages archives pages whose ID is missing or not in the valid
// set, and returns the set of IDs that remain in Notion.
func pruneStalePages(ctx context.Context, notionClient NotionService, pages []notionapi.Page, validIDs map[string]bool, extract func(notionapi.Page) string, dryRun bool) (map[string]bool, int) {
	log := logger.FromContext(ctx)

	existing := make(map[string]bool)
	var deleted int
	for _, page := range pages {
		id := extract(page)
		if id != "" && validIDs[id] {
			existing[id] = true
			continue
		}
		if dryRun {
			log.Info().
				Str("record_id", id).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would delete stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("record_id", id).
				Str("page_id", string(page.ID)).
				Msg("Failed to delete stale Notion page")
			continue
		}
		deleted++
	}
	return existing, deleted
}

// queryAllNotionPages queries all pages from a Notion database.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}

		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// extractTitleID returns an extractor for the title property holding the
// record's idempotency key.
func extractTitleID(propName string) func(notionapi.Page) string {
	return func(page notionapi.Page) string {
		if prop, ok := page.Properties[propName]; ok {
			if title, ok := prop.(*notionapi.TitleProperty); ok {
				if len(title.Title) > 0 {
					return title.Title[0].PlainText
				}
			}
		}
		return ""
	}
}
