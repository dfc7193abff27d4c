package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// ListAllDocuments returns every documents row, newest upload first.
func ListAllDocuments(ctx context.Context) ([]*DocumentRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListAllDocuments: bigquery client: %w", err)
	}
	defer client.Close()

	return ListDocumentsWithClient(ctx, client)
}

// InsertDocumentWithClient inserts a single DocumentRow using the provided
// BigQuery client.
func InsertDocumentWithClient(ctx context.Context, client *bigquery.Client, row *DocumentRow) error {
	inserter := client.Dataset(datasetID).Table(documentsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// MarkDocumentProcessedWithClient sets extraction_status and processed_ts
// on a document after its pipeline run finishes.
func MarkDocumentProcessedWithClient(ctx context.Context, client *bigquery.Client, documentID, status string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET extraction_status = @status,
		    processed_ts = @processed_ts
		WHERE document_id = @document_id
	`, datasetID, documentsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: status},
		{Name: "processed_ts", Value: time.Now()},
		{Name: "document_id", Value: documentID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: running update query: %w", err)
	}
	st, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: waiting for job: %w", err)
	}
	if err := st.Err(); err != nil {
		return fmt.Errorf("MarkDocumentProcessed: job error: %w", err)
	}
	return nil
}

// ListDocumentsWithClient retrieves all documents, newest upload first.
func ListDocumentsWithClient(ctx context.Context, client *bigquery.Client) ([]*DocumentRow, error) {
	query := fmt.Sprintf(`
		SELECT
			document_id, gcs_uri, document_type, issuer,
			statement_date, reporting_period_start, reporting_period_end,
			upload_ts, processed_ts, extraction_status,
			original_filename, file_mime_type, text_gcs_uri,
			checksum_sha256, metadata
		FROM `+"`%s.%s.%s`"+`
		ORDER BY upload_ts DESC
	`, projectID, datasetID, documentsTable)

	it, err := client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListDocuments: reading query: %w", err)
	}

	var rows []*DocumentRow
	for {
		var row DocumentRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListDocuments: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// FindDocumentByChecksumWithClient retrieves a document by its SHA-256
// checksum, or nil if no document matches.
func FindDocumentByChecksumWithClient(ctx context.Context, client *bigquery.Client, checksum string) (*DocumentRow, error) {
	query := fmt.Sprintf(`
		SELECT
			document_id, gcs_uri, document_type, issuer,
			statement_date, reporting_period_start, reporting_period_end,
			upload_ts, processed_ts, extraction_status,
			original_filename, file_mime_type, text_gcs_uri,
			checksum_sha256, metadata
		FROM `+"`%s.%s.%s`"+`
		WHERE checksum_sha256 = @checksum
		ORDER BY upload_ts DESC
		LIMIT 1
	`, projectID, datasetID, documentsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{{Name: "checksum", Value: checksum}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindDocumentByChecksum: reading query: %w", err)
	}

	var row DocumentRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindDocumentByChecksum: iterating rows: %w", err)
	}
	return &row, nil
}
