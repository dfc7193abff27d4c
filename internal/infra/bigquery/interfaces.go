package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// StatementRepository is the persistence surface the extraction pipeline
// depends on. Implementations must be safe for concurrent use.
type StatementRepository interface {
	InsertDocument(ctx context.Context, row *DocumentRow) error
	ListDocuments(ctx context.Context) ([]*DocumentRow, error)
	FindDocumentByChecksum(ctx context.Context, checksum string) (*DocumentRow, error)
	MarkDocumentProcessed(ctx context.Context, documentID, status string) error

	StartExtractionRun(ctx context.Context, documentID, modelName, parserVersion string) (string, error)
	MarkExtractionRunFailed(ctx context.Context, extractionRunID string, runErr error)
	MarkExtractionRunSucceeded(ctx context.Context, extractionRunID string) error
	MarkExtractionRunsSuperseded(ctx context.Context, documentID, keepRunID string) error

	SaveModelOutput(ctx context.Context, row *ModelOutputRow) (string, error)

	InsertHoldings(ctx context.Context, rows []*HoldingRow) error
	InsertTransactions(ctx context.Context, rows []*TransactionRow) error
	ListHoldingsForDocument(ctx context.Context, documentID string) ([]*HoldingRow, error)
	ListTransactionsForDocument(ctx context.Context, documentID string) ([]*TransactionRow, error)

	Close() error
}

// BigQueryStatementRepository is the concrete implementation of
// StatementRepository. It holds a shared BigQuery client to avoid creating
// a new connection for each operation.
type BigQueryStatementRepository struct {
	client *bigquery.Client
}

var _ StatementRepository = (*BigQueryStatementRepository)(nil)

// NewBigQueryStatementRepository creates a repository with a shared
// BigQuery client.
func NewBigQueryStatementRepository(ctx context.Context) (*BigQueryStatementRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryStatementRepository: creating client: %w", err)
	}
	return &BigQueryStatementRepository{
		client: client,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *BigQueryStatementRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertDocument delegates to InsertDocumentWithClient with the shared client.
func (r *BigQueryStatementRepository) InsertDocument(ctx context.Context, row *DocumentRow) error {
	return InsertDocumentWithClient(ctx, r.client, row)
}

// ListDocuments delegates to ListDocumentsWithClient with the shared client.
func (r *BigQueryStatementRepository) ListDocuments(ctx context.Context) ([]*DocumentRow, error) {
	return ListDocumentsWithClient(ctx, r.client)
}

// FindDocumentByChecksum delegates to FindDocumentByChecksumWithClient with the shared client.
func (r *BigQueryStatementRepository) FindDocumentByChecksum(ctx context.Context, checksum string) (*DocumentRow, error) {
	return FindDocumentByChecksumWithClient(ctx, r.client, checksum)
}

// MarkDocumentProcessed delegates to MarkDocumentProcessedWithClient with the shared client.
func (r *BigQueryStatementRepository) MarkDocumentProcessed(ctx context.Context, documentID, status string) error {
	return MarkDocumentProcessedWithClient(ctx, r.client, documentID, status)
}

// StartExtractionRun delegates to StartExtractionRunWithClient with the shared client.
func (r *BigQueryStatementRepository) StartExtractionRun(ctx context.Context, documentID, modelName, parserVersion string) (string, error) {
	return StartExtractionRunWithClient(ctx, r.client, documentID, modelName, parserVersion)
}

// MarkExtractionRunFailed delegates to MarkExtractionRunFailedWithClient with the shared client.
func (r *BigQueryStatementRepository) MarkExtractionRunFailed(ctx context.Context, extractionRunID string, runErr error) {
	MarkExtractionRunFailedWithClient(ctx, r.client, extractionRunID, runErr)
}

// MarkExtractionRunSucceeded delegates to MarkExtractionRunSucceededWithClient with the shared client.
func (r *BigQueryStatementRepository) MarkExtractionRunSucceeded(ctx context.Context, extractionRunID string) error {
	return MarkExtractionRunSucceededWithClient(ctx, r.client, extractionRunID)
}

// MarkExtractionRunsSuperseded delegates to MarkExtractionRunsSupersededWithClient with the shared client.
func (r *BigQueryStatementRepository) MarkExtractionRunsSuperseded(ctx context.Context, documentID, keepRunID string) error {
	return MarkExtractionRunsSupersededWithClient(ctx, r.client, documentID, keepRunID)
}

// SaveModelOutput delegates to SaveModelOutputWithClient with the shared client.
func (r *BigQueryStatementRepository) SaveModelOutput(ctx context.Context, row *ModelOutputRow) (string, error) {
	return SaveModelOutputWithClient(ctx, r.client, row)
}

// InsertHoldings delegates to InsertHoldingsWithClient with the shared client.
func (r *BigQueryStatementRepository) InsertHoldings(ctx context.Context, rows []*HoldingRow) error {
	return InsertHoldingsWithClient(ctx, r.client, rows)
}

// InsertTransactions delegates to InsertTransactionsWithClient with the shared client.
func (r *BigQueryStatementRepository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	return InsertTransactionsWithClient(ctx, r.client, rows)
}

// ListHoldingsForDocument delegates to ListHoldingsForDocumentWithClient with the shared client.
func (r *BigQueryStatementRepository) ListHoldingsForDocument(ctx context.Context, documentID string) ([]*HoldingRow, error) {
	return ListHoldingsForDocumentWithClient(ctx, r.client, documentID)
}

// ListTransactionsForDocument delegates to ListTransactionsForDocumentWithClient with the shared client.
func (r *BigQueryStatementRepository) ListTransactionsForDocument(ctx context.Context, documentID string) ([]*TransactionRow, error) {
	return ListTransactionsForDocumentWithClient(ctx, r.client, documentID)
}
