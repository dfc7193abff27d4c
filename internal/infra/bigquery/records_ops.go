package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertHoldingsWithClient streams canonicalized holding rows into the
// holdings table. A nil or empty slice is a no-op.
func InsertHoldingsWithClient(ctx context.Context, client *bigquery.Client, rows []*HoldingRow) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := client.Dataset(datasetID).Table(holdingsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertHoldings: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// InsertTransactionsWithClient streams canonicalized transaction rows into
// the transactions table. A nil or empty slice is a no-op.
func InsertTransactionsWithClient(ctx context.Context, client *bigquery.Client, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	inserter := client.Dataset(datasetID).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// ListHoldingsForDocumentWithClient returns the archived holdings of the
// latest successful extraction run for a document.
func ListHoldingsForDocumentWithClient(ctx context.Context, client *bigquery.Client, documentID string) ([]*HoldingRow, error) {
	query := fmt.Sprintf(`
		SELECT h.*
		FROM `+"`%s.%s.%s`"+` h
		JOIN `+"`%s.%s.%s`"+` r
		  ON h.extraction_run_id = r.extraction_run_id
		WHERE h.document_id = @document_id
		  AND r.status = 'SUCCESS'
		ORDER BY r.started_ts DESC, h.holding_id
	`, projectID, datasetID, holdingsTable, projectID, datasetID, extractionRunsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{{Name: "document_id", Value: documentID}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListHoldingsForDocument: reading query: %w", err)
	}

	var rows []*HoldingRow
	for {
		var row HoldingRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListHoldingsForDocument: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// ListTransactionsForDocumentWithClient returns the archived transactions of
// the latest successful extraction run for a document.
func ListTransactionsForDocumentWithClient(ctx context.Context, client *bigquery.Client, documentID string) ([]*TransactionRow, error) {
	query := fmt.Sprintf(`
		SELECT t.*
		FROM `+"`%s.%s.%s`"+` t
		JOIN `+"`%s.%s.%s`"+` r
		  ON t.extraction_run_id = r.extraction_run_id
		WHERE t.document_id = @document_id
		  AND r.status = 'SUCCESS'
		ORDER BY r.started_ts DESC, t.transaction_date, t.transaction_id
	`, projectID, datasetID, transactionsTable, projectID, datasetID, extractionRunsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{{Name: "document_id", Value: documentID}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactionsForDocument: reading query: %w", err)
	}

	var rows []*TransactionRow
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactionsForDocument: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
